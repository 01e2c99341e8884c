package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"adlens/internal/cache"
	apperrors "adlens/internal/errors"
	"adlens/internal/model"
	"adlens/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// SeedUser describes a user created at startup or by the seed command.
type SeedUser struct {
	ID       string     `json:"id" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

// DefaultUsers are created on every start unless their ids already exist.
var DefaultUsers = []SeedUser{
	{ID: "user-123", Name: "Demo User", Password: "demo", Role: model.RoleUser},
	{ID: "admin-001", Name: "Administrator", Password: "admin", Role: model.RoleAdmin},
}

// UserService exposes domain operations.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// SeedUsers creates the given users, skipping existing ids, and returns how many were created.
	SeedUsers(ctx context.Context, users []SeedUser) (int, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	logger zerolog.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, logger zerolog.Logger) UserService {
	return &userService{repo: repo, cache: cache, logger: logger}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) && cached.ID == id {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) SeedUsers(ctx context.Context, users []SeedUser) (int, error) {
	created := 0
	for _, su := range users {
		if su.ID == "" || su.Name == "" || su.Password == "" {
			return created, fmt.Errorf("%w: %q needs id, name and password", apperrors.ErrInvalidUser, su.ID)
		}
		role := su.Role
		if role == "" {
			role = model.RoleUser
		}
		if role != model.RoleUser && role != model.RoleAdmin {
			return created, fmt.Errorf("%w: %q has unknown role %q", apperrors.ErrInvalidUser, su.ID, role)
		}
		hash, err := HashPassword(su.Password)
		if err != nil {
			return created, err
		}
		ok, err := s.repo.CreateIfMissing(ctx, &model.User{ID: su.ID, Name: su.Name, PasswordHash: hash, Role: role})
		if err != nil {
			return created, fmt.Errorf("seed user %q: %w", su.ID, err)
		}
		if ok {
			created++
			s.logger.Info().Str("user_id", su.ID).Str("role", string(role)).Msg("Seeded user")
		}
	}
	return created, nil
}
