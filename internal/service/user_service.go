package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-system/internal/dto"
	"library-system/internal/model"
	"library-system/internal/repository"
)

// UserService handles admin account management.
type UserService interface {
	// Approve flips a student's approval flag to true. Approving an already
	// approved account is a no-op success.
	Approve(ctx context.Context, userID string) (*dto.UserResponse, error)
	ListStudents(ctx context.Context, page *dto.PaginationRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates the UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Approve(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}

	if !user.IsApproved {
		user.IsApproved = true
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("approve user failed", zap.Error(err), zap.String("user_id", userID))
			return nil, err
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListStudents(ctx context.Context, page *dto.PaginationRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.ListByRole(ctx, model.RoleStudent, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.UserID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		IsApproved: user.IsApproved,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}
