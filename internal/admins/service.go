package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("admin user already exists")
)

// Service manages operator accounts stored in the adminuser collection.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns the stored admin for email, or nil when there is none.
func (s *Service) FindByEmail(ctx context.Context, email string) (*schema.AdminUser, error) {
	docs, err := store.Find(ctx, s.store, schema.KindAdminUser.Collection(), store.Filter{"email": normalizeEmail(email)}, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	u, err := schema.FromDocument[schema.AdminUser](store.StripID(docs[0]))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate checks email and password against the stored bcrypt hash.
// Unknown users, inactive users and wrong passwords all yield
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*schema.AdminUser, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Create hashes password and stores a new active admin with the given role.
func (s *Service) Create(ctx context.Context, email, password, role string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrAlreadyExists
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	u := schema.AdminUser{Email: normalizeEmail(email), PasswordHash: hash, Role: role, Active: true}
	if errs := schema.Validate(&u); len(errs) > 0 {
		return "", fmt.Errorf("invalid admin user: %s: %s", errs[0].Field, errs[0].Message)
	}
	return s.store.CreateDocument(ctx, u.Kind().Collection(), u)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
