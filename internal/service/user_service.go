package service

import (
	"context"
	"errors"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/rs/zerolog"
)

// UserService handles admin and teacher account management.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	registry *CachedAssignmentRegistry
	audit    *AuditService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, registry *CachedAssignmentRegistry, audit *AuditService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		registry: registry,
		audit:    audit,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// Login verifies credentials and issues a session-backed JWT.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(ctx, user.ID, user.Role, user.IsSuperAdmin)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, User: *user}, nil
}

// Logout clears the user's active session.
func (s *UserService) Logout(ctx context.Context, userID int) error {
	return s.auth.ResetSession(ctx, userID)
}

// Get retrieves a single account.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &rules.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return user, nil
}

// List retrieves all accounts.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Create provisions a new admin or teacher account. The creating admin is
// recorded on the account; the super-admin flag is never set this way.
func (s *UserService) Create(ctx context.Context, actor rules.Actor, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         rules.Role(req.Role),
		CreatedBy:    &actor.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, &rules.ConflictError{Resource: "user", Detail: "username or email already taken"}
		}
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "create", "user", user.ID, user.Username)
	return user, nil
}

// Update modifies an account. A role change away from teacher drops the
// cached class grant; a password change invalidates the active session.
func (s *UserService) Update(ctx context.Context, actor rules.Actor, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSuperAdmin && !actor.SuperAdmin {
		return nil, &rules.AuthorizationError{Action: "update", Resource: "super admin account"}
	}

	wasTeacher := user.Role == rules.RoleTeacher
	user.Email = req.Email
	user.FullName = req.FullName
	user.Role = rules.Role(req.Role)

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, &rules.ConflictError{Resource: "user", Detail: "email already taken"}
		}
		return nil, err
	}

	if wasTeacher && user.Role != rules.RoleTeacher {
		s.registry.Invalidate(ctx, []int{user.ID})
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		if err := s.auth.ResetSession(ctx, id); err != nil {
			s.log.Warn().Err(err).Int("user_id", id).Msg("session reset failed")
		}
	}

	s.audit.Record(ctx, actor.ID, "update", "user", user.ID, user.Username)
	return user, nil
}

// Delete removes an account, its session and its cached class grant.
func (s *UserService) Delete(ctx context.Context, actor rules.Actor, id int) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSuperAdmin {
		return &rules.AuthorizationError{Action: "delete", Resource: "super admin account"}
	}
	if user.ID == actor.ID {
		return rules.NewValidationError("id", "cannot delete your own account")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.auth.ResetSession(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("session reset failed")
	}
	s.registry.Invalidate(ctx, []int{id})

	s.audit.Record(ctx, actor.ID, "delete", "user", id, user.Username)
	return nil
}
