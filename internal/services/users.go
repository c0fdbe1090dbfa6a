package services

import (
	"context"

	"github.com/fathima-sithara/snapshoot-service/internal/auth"
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Bio      string
	Avatar   string
	Role     domain.Role
}

// UpdateUserInput changes only the non-nil fields.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Avatar   *string
	Role     *domain.Role
}

func requireAdmin(id domain.Identity) error {
	if !id.IsAdmin() {
		return domain.NewError(domain.ErrForbidden, "admin role required")
	}
	return nil
}

func newUser(in CreateUserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !in.Role.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "unknown role %q", in.Role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domain.NewError(domain.ErrValidation, "password cannot be hashed")
	}
	return &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Bio:          in.Bio,
		Avatar:       in.Avatar,
	}, nil
}

func (s *UserService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, id.UserID)
}

func (s *UserService) Get(ctx context.Context, _ domain.Identity, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context, id domain.Identity) ([]domain.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, id domain.Identity, in CreateUserInput) (*domain.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	u, err := newUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateMe(ctx context.Context, id domain.Identity, in UpdateUserInput) (*domain.User, error) {
	if in.Role != nil && !id.IsAdmin() {
		return nil, domain.NewError(domain.ErrForbidden, "only an admin can change roles")
	}
	return s.update(ctx, id.UserID, in)
}

func (s *UserService) Update(ctx context.Context, id domain.Identity, userID string, in UpdateUserInput) (*domain.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.update(ctx, userID, in)
}

func (s *UserService) update(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error) {
	upd := domain.UserUpdate{
		Username: in.Username,
		Email:    in.Email,
		Bio:      in.Bio,
		Avatar:   in.Avatar,
		Role:     in.Role,
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "unknown role %q", *in.Role)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, domain.NewError(domain.ErrValidation, "password cannot be hashed")
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return s.users.FindByID(ctx, userID)
	}
	return s.users.Update(ctx, userID, upd)
}

// DeleteMe removes the caller's account. Messages and stories they created
// are kept.
func (s *UserService) DeleteMe(ctx context.Context, id domain.Identity) error {
	return s.users.Delete(ctx, id.UserID)
}

func (s *UserService) Delete(ctx context.Context, id domain.Identity, userID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}
