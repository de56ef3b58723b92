package memory

import (
	"context"
	"time"
	"volunteer-match/internal/domain/order"
)

type OrderRepository struct {
	store *Store
}

func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.partiesExist(o.SeniorID, o.VolunteerID) {
		return order.ErrUnknownParty
	}

	o.CreatedAt = time.Now()
	if o.Status == "" {
		o.Status = order.StatusPending
	}
	if o.Description == nil {
		o.Description = order.Description{}
	}

	s.nextOrderID++
	o.ID = s.nextOrderID
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, orderID int64) (*order.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) Update(_ context.Context, orderID int64, patch *order.Patch) (*order.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	updated := cloneOrder(existing)
	patch.Apply(updated)
	if !s.partiesExist(updated.SeniorID, updated.VolunteerID) {
		return nil, order.ErrUnknownParty
	}

	s.orders[orderID] = updated
	return cloneOrder(updated), nil
}

func (r *OrderRepository) Delete(_ context.Context, orderID int64) (*order.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	return cloneOrder(o), nil
}

func (r *OrderRepository) Query(_ context.Context, q *order.Query) ([]order.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		candidates = append(candidates, cloneOrder(o))
	}

	return order.Evaluate(candidates, s.locate, q), nil
}

// partiesExist must be called with the lock held.
func (s *Store) partiesExist(seniorID int64, volunteerID *int64) bool {
	if _, ok := s.users[seniorID]; !ok {
		return false
	}
	if volunteerID != nil {
		if _, ok := s.users[*volunteerID]; !ok {
			return false
		}
	}
	return true
}
