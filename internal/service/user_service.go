package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	UpdateDetails(ctx context.Context, userID uint, firstName, lastName string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint, newPassword string) error
	GetAllUsers(ctx context.Context) ([]model.User, error)
	DeactivateUser(ctx context.Context, adminID, targetID uint) error
}

type UserService struct {
	userRepo db.IUserRepository
}

func NewUserService(userRepo db.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) UpdateDetails(ctx context.Context, userID uint, firstName, lastName string) (*model.User, error) {
	if firstName == "" || lastName == "" {
		return nil, er.New(er.InvalidArgumentCode, "first name and last name are required")
	}

	user, err := s.userRepo.UpdateUserDetails(ctx, userID, firstName, lastName)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, er.Newf(er.NotFoundCode, "user %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return er.Newf(er.InvalidArgumentCode, "password must be at least %d characters", minPasswordLen)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.userRepo.UpdateUserPassword(ctx, userID, string(hashed))
	if errors.Is(err, db.ErrUserNotFound) {
		return er.Newf(er.NotFoundCode, "user %d not found", userID)
	}
	return err
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

// DeactivateUser 管理員不能封存自己的帳號
func (s *UserService) DeactivateUser(ctx context.Context, adminID, targetID uint) error {
	if adminID == targetID {
		return er.New(er.UnauthorizedCode, "cannot deactivate your own admin account")
	}

	err := s.userRepo.DeactivateUser(ctx, targetID)
	if errors.Is(err, db.ErrUserNotFound) {
		return er.Newf(er.NotFoundCode, "user %d not found", targetID)
	}
	return err
}

var _ IUserService = (*UserService)(nil)
