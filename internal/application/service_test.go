package application_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// memRepo is an in-memory user store that enforces the same uniqueness
// invariants as the Postgres schema: one user per email, one user per
// (oauth subject id, provider) pair.
type memRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User)}
}

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts(u, "") {
		return repository.ErrDuplicate
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) GetByOAuthIdentity(_ context.Context, subjectID, provider string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.OAuthSubjectID == subjectID && u.AuthProvider == provider && subjectID != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.conflicts(u, u.ID) {
		return repository.ErrDuplicate
	}
	u.UpdatedAt = time.Now()
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memRepo) conflicts(u *entity.User, selfID string) bool {
	for id, other := range m.users {
		if id == selfID {
			continue
		}
		if other.Email == u.Email {
			return true
		}
		if u.OAuthSubjectID != "" && other.OAuthSubjectID == u.OAuthSubjectID && other.AuthProvider == u.AuthProvider {
			return true
		}
	}
	return false
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// plainHasher avoids bcrypt cost in tests while keeping verify semantics.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Verify(plain, hash string) bool    { return hash == "hashed:"+plain }

func newTestService(repo repository.UserRepository) *application.Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tokens := helpers.NewTokenIssuer(helpers.TokenOptions{
		SigningKey: "test-signing-key",
		Issuer:     "identity-test",
		Audience:   "identity-test",
		TTL:        time.Hour,
	})
	return application.NewService(repo, plainHasher{}, tokens, nil, logger)
}
