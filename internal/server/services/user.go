// Package services contains the API server's business logic: accounts and
// token issuance in UserService, role-scoped task access in TaskService.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
	now                         func() time.Time
	log                         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
		now:                         time.Now,
		log:                         log.With("component", "users"),
	}
}

// Register creates an account with the user role. A taken email yields
// common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return s.create(ctx, email, password, models.RoleUser)
}

// Login checks the password and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// Authenticate resolves an access token to its user. A token whose user no
// longer exists yields common.ErrNotFound.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		if common.IsTokenError(err) {
			s.log.Debug(ctx, "token rejected", "error", err)
		}
		return nil, err
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListUsers returns every account. Only admins may call it.
func (s *UserService) ListUsers(ctx context.Context, requester *models.User) ([]models.User, error) {
	if requester.Role != models.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return s.repomanager.Users(s.db).List(ctx)
}

// SeedAdmin makes sure an admin account with email exists. An existing
// account is left untouched.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	_, err := s.create(ctx, email, password, models.RoleAdmin)
	if errors.Is(err, common.ErrAlreadyExists) {
		s.log.Debug(ctx, "admin already present", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info(ctx, "admin seeded", "email", email)
	return nil
}

func (s *UserService) create(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{Fields: map[string]string{"password": "Longer than maximum length 72."}}
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{Email: email, PasswordHash: hash, Role: role, CreatedAt: now, UpdatedAt: now}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

func validateCredentials(email, password string) error {
	var v validator
	v.check(email != "", "email", "Missing data for required field.")
	v.check(email == "" || strings.Contains(email, "@"), "email", "Not a valid email address.")
	v.check(password != "", "password", "Missing data for required field.")
	return v.err()
}
