package service

import (
	"context"
	"errors"
	"sync"

	"course_insights/internal/model"
	"course_insights/internal/repository"

	"github.com/google/uuid"
)

// mockUserRepository is an in-memory UserRepository
type mockUserRepository struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*model.User
	usernameIndex map[string]*model.User
	createError   error
	findError     error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:         make(map[uuid.UUID]*model.User),
		usernameIndex: make(map[string]*model.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createError != nil {
		return r.createError
	}
	if _, exists := r.usernameIndex[user.Username]; exists {
		return repository.ErrDuplicateUsername
	}
	stored := *user
	r.users[user.ID] = &stored
	r.usernameIndex[user.Username] = &stored
	return nil
}

func (r *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findError != nil {
		return nil, r.findError
	}
	if u, ok := r.usernameIndex[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findError != nil {
		return nil, r.findError
	}
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found for password update")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *mockUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *mockUserRepository) storedHash(username string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usernameIndex[username].PasswordHash
}

// mockScheduleRepository keeps an ordered set per user
type mockScheduleRepository struct {
	mu        sync.Mutex
	schedules map[uuid.UUID][]string
	err       error
}

func newMockScheduleRepository() *mockScheduleRepository {
	return &mockScheduleRepository{schedules: make(map[uuid.UUID][]string)}
}

func (r *mockScheduleRepository) Add(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, ref := range r.schedules[userID] {
		if ref == sectionRef {
			return false, nil
		}
	}
	r.schedules[userID] = append(r.schedules[userID], sectionRef)
	return true, nil
}

func (r *mockScheduleRepository) Remove(ctx context.Context, userID uuid.UUID, sectionRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	kept := []string{}
	for _, ref := range r.schedules[userID] {
		if ref != sectionRef {
			kept = append(kept, ref)
		}
	}
	removed := len(kept) != len(r.schedules[userID])
	r.schedules[userID] = kept
	return removed, nil
}

func (r *mockScheduleRepository) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]string{}, r.schedules[userID]...), nil
}
