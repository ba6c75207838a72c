package user

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Check-and-insert happens under one
// lock, so it keeps the one-row-per-email invariant like the unique index.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]User

	// Fail, when set, is returned by every call.
	Fail error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uint64]User)}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	email = CanonicalEmail(email)
	for _, u := range s.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id uint64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	switch err {
	case nil:
		return true, nil
	case ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.nextID++
	u.ID = s.nextID
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now()
	}
	s.byID[u.ID] = *u
	return nil
}

// Len reports the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
