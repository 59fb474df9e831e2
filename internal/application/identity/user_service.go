package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/shared"
)

// UserService manages the user registry
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create registers a new user
func (s *UserService) Create(ctx context.Context, input CreateUserRequest) (*UserResponse, error) {
	role := identity.Role(input.Role)
	if input.Role == "" {
		role = identity.RoleMember
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	resp := toUserResponse(user)
	return &resp, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, q ListUsersRequest) (*ListUsersResult, error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Search = q.Search

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}

	return &ListUsersResult{
		Users: responses,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
