package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	repo "github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
)

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a local account and signs the first session token.
// Fails with ErrDuplicateAccount when the email is taken, including when a
// concurrent registration wins the race at the store.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		s.logError(err, logrus.Fields{"email": email}, "hash password failed")
		return nil, err
	}

	u := &entity.User{
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		AuthProvider: entity.ProviderLocal,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Lost the race against a concurrent register for the same email.
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		s.logError(err, logrus.Fields{"email": email}, "create user failed")
		return nil, err
	}

	res, err := s.issueFor(ctx, u)
	if err != nil {
		return nil, err
	}
	s.enqueueEmail(ctx, u, mailer.TemplateWelcome, nil)
	s.indexUser(ctx, u)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")
	}
	return res, nil
}

// Login authenticates a local account. Unknown email, missing local
// credential, and wrong password all return ErrInvalidCredentials; an account
// bound to an external provider returns WrongAuthMethodError regardless of
// the password supplied.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.IsExternal() {
		return nil, &WrongAuthMethodError{Provider: u.AuthProvider}
	}
	if !u.HasLocalCredential() {
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(ctx, u)
}
