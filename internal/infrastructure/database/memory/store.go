// Package memory is a process-local store implementing the repository
// interfaces. It backs DB_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"volunteer-match/internal/domain/order"
	"volunteer-match/internal/domain/user"
)

// Store holds all tables behind one lock so cascades stay atomic.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*user.User
	orders   map[int64]*order.Order
	sessions map[int64]*user.Session

	nextUserID    int64
	nextOrderID   int64
	nextSessionID int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*user.User),
		orders:   make(map[int64]*order.Order),
		sessions: make(map[int64]*user.Session),
	}
}

func (s *Store) Users() user.Repository {
	return &UserRepository{store: s}
}

func (s *Store) Orders() order.Repository {
	return &OrderRepository{store: s}
}

func (s *Store) Sessions() user.SessionRepository {
	return &SessionRepository{store: s}
}

// Health always succeeds; the store has no external dependency.
func (s *Store) Health(_ context.Context) error {
	return nil
}

// locate must be called with at least the read lock held.
func (s *Store) locate(userID int64) (order.Point, bool) {
	u, ok := s.users[userID]
	if !ok || !u.HasLocation() {
		return order.Point{}, false
	}
	return order.Point{Latitude: *u.Latitude, Longitude: *u.Longitude}, true
}

func cloneUser(u *user.User) *user.User {
	c := *u
	patch := user.Patch{
		Address:     u.Address,
		Longitude:   u.Longitude,
		Latitude:    u.Latitude,
		ImageURL:    u.ImageURL,
		Description: u.Description,
	}
	patch.Apply(&c)
	return &c
}

func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Description = maps.Clone(o.Description)
	if c.Description == nil {
		c.Description = order.Description{}
	}
	if o.ValidSince != nil {
		t := *o.ValidSince
		c.ValidSince = &t
	}
	if o.ValidUntil != nil {
		t := *o.ValidUntil
		c.ValidUntil = &t
	}
	if o.VolunteerID != nil {
		id := *o.VolunteerID
		c.VolunteerID = &id
	}
	return &c
}
