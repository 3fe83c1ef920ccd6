package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain/entity"
)

func TestRegisterThenLogin(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, application.RegisterInput{
		Email:     "a@x.com",
		FirstName: "A",
		LastName:  "B",
		Password:  "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.Equal(t, entity.ProviderLocal, reg.User.AuthProvider)
	assert.True(t, reg.User.IsActive)

	login, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, application.RegisterInput{Email: "a@x.com", FirstName: "C", LastName: "D", Password: "other456"})
	assert.ErrorIs(t, err, application.ErrDuplicateAccount)
	assert.Equal(t, 1, repo.count(), "failed register must not leave a record")
}

func TestRegisterDuplicateRaceAtStore(t *testing.T) {
	// Lookup misses but the store's constraint fires on create: the race
	// loser must still see DuplicateAccount, not a generic failure.
	repo := newMemRepo()
	svc := newTestService(&raceOnCreateRepo{memRepo: repo, competitor: entity.User{
		Email:        "a@x.com",
		PasswordHash: "hashed:other",
		AuthProvider: entity.ProviderLocal,
	}})
	_, err := svc.Register(context.Background(), application.RegisterInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "secret123"})
	assert.ErrorIs(t, err, application.ErrDuplicateAccount)
	assert.Equal(t, 1, repo.count())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, application.RegisterInput{Email: "  A@X.com ", FirstName: "A", LastName: "B", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", reg.User.Email)

	login, err := svc.Login(ctx, "A@x.COM", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "secret1x"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "whatever1")
	_, wrongPwErr := svc.Login(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, unknownErr, application.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, application.ErrInvalidCredentials)
	// Same error value both ways: no account-enumeration signal.
	assert.Equal(t, unknownErr, wrongPwErr)
}

func TestLoginRejectsProviderBoundAccount(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Reconcile(ctx, application.ExternalProfile{
		SubjectID: "g1", Provider: entity.ProviderGoogle, Email: "a@x.com", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "anything1")
	var wrongMethod *application.WrongAuthMethodError
	require.ErrorAs(t, err, &wrongMethod)
	assert.Equal(t, entity.ProviderGoogle, wrongMethod.Provider)
}

func TestLoginAccountWithoutCredential(t *testing.T) {
	// AuthProvider unset and no hash: treated as invalid credentials.
	repo := newMemRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.User{Email: "a@x.com"}))
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "anything1")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

// raceOnCreateRepo simulates losing a creation race: the first Create inserts
// a competing record behind the caller's back and reports the constraint
// violation the real store would raise.
type raceOnCreateRepo struct {
	*memRepo
	competitor entity.User
	raced      bool
}

func (r *raceOnCreateRepo) Create(ctx context.Context, u *entity.User) error {
	if !r.raced {
		r.raced = true
		competitor := r.competitor
		if err := r.memRepo.Create(ctx, &competitor); err != nil {
			return err
		}
	}
	return r.memRepo.Create(ctx, u) // conflicts with the competitor
}
