package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ErrNotAParent signals a child assignment against an account whose role is
// not parent.
var ErrNotAParent = errors.New("account is not a parent")

// UserService is the privileged account-management surface. Self-service
// profile operations live on AuthService.
type UserService interface {
	List(ctx context.Context, actor Actor, role string) ([]dto.UserResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.UserResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	AssignChildren(ctx context.Context, actor Actor, payload dto.AssignParentRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user-management service.
func NewUserService(
	users repository.UserRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) UserService {
	return &userService{
		users:     users,
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, actor Actor, role string) ([]dto.UserResponse, error) {
	if err := authorize(actor, access.OpManageUsers); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, models.Role(role))
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) Get(ctx context.Context, actor Actor, id uint) (dto.UserResponse, error) {
	if err := authorize(actor, access.OpManageUsers); err != nil {
		return dto.UserResponse{}, err
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, ErrUserNotFound
	}
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := authorize(actor, access.OpManageUsers); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, ErrUserNotFound
	}
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.FirstName != nil {
		user.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		user.LastName = *payload.LastName
	}
	if payload.Phone != nil {
		user.Phone = *payload.Phone
	}
	if payload.Role != nil {
		user.Role = models.Role(*payload.Role)
	}

	user.Children = nil
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("account updated")
	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := authorize(actor, access.OpManageUsers); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info().Uint("user_id", id).Msg("account deleted")
	return nil
}

// AssignChildren replaces the set of students a parent account is guardian
// of. Every referenced student must exist.
func (s *userService) AssignChildren(ctx context.Context, actor Actor, payload dto.AssignParentRequest) (dto.UserResponse, error) {
	if err := authorize(actor, access.OpManageUsers); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	parent, err := s.users.GetByID(ctx, payload.ParentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, ErrUserNotFound
	}
	if err != nil {
		return dto.UserResponse{}, err
	}
	if parent.Role != models.RoleParent {
		return dto.UserResponse{}, ErrNotAParent
	}

	children := make([]models.Student, 0, len(payload.StudentIDs))
	for _, studentID := range payload.StudentIDs {
		student, err := s.students.GetByID(ctx, studentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrStudentNotFound
		}
		if err != nil {
			return dto.UserResponse{}, err
		}
		children = append(children, student)
	}

	if err := s.users.ReplaceChildren(ctx, &parent, children); err != nil {
		return dto.UserResponse{}, err
	}

	parent.Children = children
	s.logger.Info().
		Uint("parent_id", parent.ID).
		Int("children", len(children)).
		Msg("guardian links replaced")

	return dto.NewUserResponse(parent), nil
}
