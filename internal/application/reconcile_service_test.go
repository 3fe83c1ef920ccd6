package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

func googleProfile() application.ExternalProfile {
	return application.ExternalProfile{
		SubjectID: "g1",
		Provider:  entity.ProviderGoogle,
		Email:     "a@x.com",
		FirstName: "A",
		LastName:  "B",
		AvatarURL: "https://img.example/a.png",
	}
}

func TestReconcileCreatesNewAccount(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	res, err := svc.Reconcile(context.Background(), googleProfile())
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	u, err := repo.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderGoogle, u.AuthProvider)
	assert.Equal(t, "g1", u.OAuthSubjectID)
	assert.Empty(t, u.PasswordHash, "externally created account has no local credential")
	assert.Equal(t, 1, repo.count())
}

func TestReconcileRepeatSignInRefreshesProfile(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, googleProfile())
	require.NoError(t, err)

	p := googleProfile()
	p.LastName = "Changed"
	second, err := svc.Reconcile(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID, "same identity maps to same account")
	assert.Equal(t, "Changed", second.User.LastName)
	assert.Equal(t, 1, repo.count())
}

func TestReconcileLinksExistingLocalAccount(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, application.RegisterInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Reconcile(ctx, googleProfile())
	require.NoError(t, err)

	assert.Equal(t, reg.User.ID, res.User.ID, "identity links onto the existing account")
	u, err := repo.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderGoogle, u.AuthProvider)
	assert.Equal(t, "g1", u.OAuthSubjectID)
	assert.Equal(t, "a@x.com", u.Email, "email stays untouched")
	assert.Equal(t, 1, repo.count())
}

func TestReconcileLinkDisablesLocalLogin(t *testing.T) {
	// Linking replaces the auth method while keeping the password hash in
	// place, so a correct password no longer logs in. Deliberate behavior;
	// any change to it should have to update this test.
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Reconcile(ctx, googleProfile())
	require.NoError(t, err)

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PasswordHash, "hash is kept, not cleared")

	_, err = svc.Login(ctx, "a@x.com", "secret123")
	var wrongMethod *application.WrongAuthMethodError
	require.ErrorAs(t, err, &wrongMethod)
	assert.Equal(t, entity.ProviderGoogle, wrongMethod.Provider)
}

func TestReconcileCrossProviderEmailReuse(t *testing.T) {
	// A linkedin identity with the same email as an existing google account
	// re-links the account; the google identity no longer resolves it.
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, googleProfile())
	require.NoError(t, err)

	res, err := svc.Reconcile(ctx, application.ExternalProfile{
		SubjectID: "l9", Provider: entity.ProviderLinkedIn, Email: "a@x.com", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, res.User.ID)

	u, err := repo.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderLinkedIn, u.AuthProvider)
	assert.Equal(t, "l9", u.OAuthSubjectID)
	assert.Equal(t, 1, repo.count())
}

func TestReconcileRetriesAfterLostCreationRace(t *testing.T) {
	// Two first-time sign-ins race; the loser's create hits the uniqueness
	// constraint, and the retry resolves to the winner's record via the
	// identity match.
	repo := newMemRepo()
	winner := entity.User{
		Email:          "a@x.com",
		AuthProvider:   entity.ProviderGoogle,
		OAuthSubjectID: "g1",
		FirstName:      "A",
		LastName:       "B",
	}
	svc := newTestService(&raceOnCreateRepo{memRepo: repo, competitor: winner})

	res, err := svc.Reconcile(context.Background(), googleProfile())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count(), "exactly one account survives the race")

	u, err := repo.GetByOAuthIdentity(context.Background(), "g1", entity.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
}

func TestReconcileSurfacesUnresolvableConflict(t *testing.T) {
	svc := newTestService(alwaysConflictRepo{})
	_, err := svc.Reconcile(context.Background(), googleProfile())
	assert.ErrorIs(t, err, application.ErrConcurrentRegistration)
}

// alwaysConflictRepo never finds anything and always reports a constraint
// violation on write, as if every race were lost and lookups kept missing.
type alwaysConflictRepo struct{}

func (alwaysConflictRepo) Create(context.Context, *entity.User) error {
	return repository.ErrDuplicate
}

func (alwaysConflictRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (alwaysConflictRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (alwaysConflictRepo) GetByOAuthIdentity(context.Context, string, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (alwaysConflictRepo) Update(context.Context, *entity.User) error {
	return repository.ErrDuplicate
}
