package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	repo "github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
)

// ExternalProfile is a verified identity assertion from an external provider.
// The OAuth handshake layer validates it before it reaches this engine; no
// field-presence checks happen here beyond what resolution needs.
type ExternalProfile struct {
	SubjectID string
	Provider  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// Reconcile maps an external identity onto exactly one local account and
// signs a session token for it. Resolution is strictly ordered, first match
// wins:
//
//  1. (subject id, provider) match — returning external user; refresh the
//     mutable profile fields, leave email and identity binding untouched.
//  2. email match — existing account links this identity; the provider
//     replaces whatever authenticated the account before, so a previously
//     local account stops accepting password login (its hash is kept).
//  3. no match — create a new account with no local credential.
//
// A store uniqueness violation means a concurrent call created or linked the
// same identity between our lookup and write; the whole resolution is re-run
// once so the loser lands in branch 1. A second violation surfaces as
// ErrConcurrentRegistration.
func (s *Service) Reconcile(ctx context.Context, p ExternalProfile) (*AuthResult, error) {
	p.Email = normalizeEmail(p.Email)

	var (
		u       *entity.User
		created bool
		err     error
	)
	for attempt := 0; attempt < 2; attempt++ {
		u, created, err = s.resolve(ctx, p)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
	}
	if err != nil {
		s.logError(err, logrus.Fields{"provider": p.Provider, "subject_id": p.SubjectID}, "reconcile conflict not resolved by retry")
		return nil, ErrConcurrentRegistration
	}

	res, err := s.issueFor(ctx, u)
	if err != nil {
		return nil, err
	}
	if created {
		s.enqueueEmail(ctx, u, mailer.TemplateExternalSignin, map[string]any{"Provider": p.Provider})
	}
	s.indexUser(ctx, u)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":  u.ID,
			"provider": p.Provider,
			"created":  created,
		}).Info("external identity reconciled")
	}
	return res, nil
}

func (s *Service) resolve(ctx context.Context, p ExternalProfile) (*entity.User, bool, error) {
	// 1. Exact identity match: returning external-identity user.
	u, err := s.Repo.GetByOAuthIdentity(ctx, p.SubjectID, p.Provider)
	if err == nil {
		u.FirstName = p.FirstName
		u.LastName = p.LastName
		u.AvatarURL = p.AvatarURL
		if err := s.Repo.Update(ctx, u); err != nil {
			return nil, false, err
		}
		return u, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	// 2. Email-based linking: bind this identity to the existing account.
	u, err = s.Repo.GetByEmail(ctx, p.Email)
	if err == nil {
		u.AuthProvider = p.Provider
		u.OAuthSubjectID = p.SubjectID
		u.FirstName = p.FirstName
		u.LastName = p.LastName
		u.AvatarURL = p.AvatarURL
		if err := s.Repo.Update(ctx, u); err != nil {
			return nil, false, err
		}
		return u, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	// 3. First sign-in: new account, no local credential.
	u = &entity.User{
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		AuthProvider:   p.Provider,
		OAuthSubjectID: p.SubjectID,
		AvatarURL:      p.AvatarURL,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
