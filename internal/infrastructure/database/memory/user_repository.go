package memory

import (
	"context"
	"slices"
	"volunteer-match/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phoneTaken(u.PhoneNumber, 0) {
		return user.ErrUserAlreadyExists
	}

	s.nextUserID++
	u.ID = s.nextUserID
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID int64) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByPhoneNumber(_ context.Context, phoneNumber string) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.PhoneNumber == phoneNumber {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, skip, limit int) ([]*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	users := []*user.User{}
	for i := max(skip, 0); i < len(ids) && len(users) < limit; i++ {
		users = append(users, cloneUser(s.users[ids[i]]))
	}
	return users, nil
}

func (r *UserRepository) Update(_ context.Context, userID int64, patch *user.Patch) (*user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	if patch.PhoneNumber != nil && s.phoneTaken(*patch.PhoneNumber, userID) {
		return nil, user.ErrUserAlreadyExists
	}

	updated := cloneUser(existing)
	patch.Apply(updated)
	s.users[userID] = updated
	return cloneUser(updated), nil
}

// Delete removes the user together with its orders (as senior or volunteer)
// and its sessions.
func (r *UserRepository) Delete(_ context.Context, userID int64) (*user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	delete(s.users, userID)

	for id, o := range s.orders {
		if o.SeniorID == userID || (o.VolunteerID != nil && *o.VolunteerID == userID) {
			delete(s.orders, id)
		}
	}
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return u, nil
}

// phoneTaken must be called with the lock held.
func (s *Store) phoneTaken(phoneNumber string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.PhoneNumber == phoneNumber {
			return true
		}
	}
	return false
}

type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) Create(_ context.Context, session *user.Session) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[session.UserID]; !ok {
		return user.ErrUserNotFound
	}

	s.nextSessionID++
	session.ID = s.nextSessionID
	c := *session
	s.sessions[c.ID] = &c
	return nil
}

func (r *SessionRepository) GetByToken(_ context.Context, token string) (*user.Session, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Lowest id wins when a token was registered twice, matching a first-row read.
	var found *user.Session
	for _, session := range s.sessions {
		if session.Token == token && (found == nil || session.ID < found.ID) {
			found = session
		}
	}
	if found == nil {
		return nil, user.ErrSessionNotFound
	}
	c := *found
	return &c, nil
}
