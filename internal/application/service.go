package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	repo "github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
)

// PasswordHasher is the credential-hashing collaborator. Implemented by
// helpers.BcryptHasher in production; tests swap in a cheap fake.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Service owns the register/login rules and the external-identity
// reconciliation algorithm. It is stateless between calls; all durable state
// lives behind the repository. Redis, RabbitMQ, GCS and Elasticsearch are
// optional side channels and may be nil (dev, tests).
type Service struct {
	Repo         repo.UserRepository
	Hasher       PasswordHasher
	Tokens       *helpers.TokenIssuer
	Redis        *redis.Client
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	AppName      string
	MailEnabled  bool
}

func NewService(repo repo.UserRepository, hasher PasswordHasher, tokens *helpers.TokenIssuer, rdb *redis.Client, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		Hasher: hasher,
		Tokens: tokens,
		Redis:  rdb,
		Logger: logger,
	}
}

// UserView is the redacted user representation returned to callers. It never
// carries the password hash or any other secret.
type UserView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthResult is the success payload of register, login, and reconcile.
type AuthResult struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

func viewOf(u *entity.User) UserView {
	return UserView{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AvatarURL:    u.AvatarURL,
		AuthProvider: u.AuthProvider,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// normalizeEmail fixes the email case policy at the service boundary so that
// uniqueness behaves case-insensitively everywhere.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// issueFor signs a token for the user and records a session snapshot in Redis.
func (s *Service) issueFor(ctx context.Context, u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		s.logError(err, logrus.Fields{"user_id": u.ID}, "issue token failed")
		return nil, err
	}
	s.cacheSession(ctx, u, exp)
	return &AuthResult{Token: token, ExpiresAt: exp, User: viewOf(u)}, nil
}

func (s *Service) cacheSession(ctx context.Context, u *entity.User, exp time.Time) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	fields := map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"avatar_url": u.AvatarURL,
		"provider":   u.AuthProvider,
		"logged_in":  true,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, exp)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logError(err, logrus.Fields{"key": key}, "redis session cache failed")
	}
}

// enqueueEmail publishes an email job; delivery happens in the worker.
// Failures are logged, never surfaced: mail must not break auth flows.
func (s *Service) enqueueEmail(ctx context.Context, u *entity.User, template string, extra map[string]any) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	data := map[string]any{
		"AppName":   s.AppName,
		"Email":     u.Email,
		"FirstName": u.FirstName,
	}
	for k, v := range extra {
		data[k] = v
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.logError(err, logrus.Fields{"user_id": u.ID, "template": template}, "enqueue email failed")
	}
}

// indexUser pushes the latest profile into Elasticsearch for /users/search.
// Best effort, same as the session cache.
func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"avatar_url": u.AvatarURL,
		"provider":   u.AuthProvider,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logError(err, logrus.Fields{"user_id": u.ID}, "es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.logWarn(logrus.Fields{"status": res.Status(), "user_id": u.ID}, "es index response error")
	}
}

// SearchUsers performs a simple multi_match search on email and names.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *Service) logError(err error, fields logrus.Fields, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Error(msg)
	}
}

func (s *Service) logWarn(fields logrus.Fields, msg string) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
