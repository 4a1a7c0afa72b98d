package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type IAuthService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type AuthService struct {
	userRepo   db.IUserRepository
	tokenMaker token.Maker
}

func NewAuthService(userRepo db.IUserRepository, tokenMaker token.Maker) *AuthService {
	return &AuthService{userRepo: userRepo, tokenMaker: tokenMaker}
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if firstName == "" || lastName == "" {
		return nil, er.New(er.InvalidArgumentCode, "first name and last name are required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, er.New(er.InvalidArgumentCode, "a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, er.Newf(er.InvalidArgumentCode, "password must be at least %d characters", minPasswordLen)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hashed),
		Role:      string(constants.RoleCustomer),
		IsActive:  true,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, er.New(er.ConflictCode, "email is already registered")
		}
		return nil, err
	}
	return user, nil
}

// Login 回應刻意不透露是帳號不存在還是密碼錯誤
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return "", nil, er.New(er.UnauthenticatedCode, "invalid credentials")
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, er.New(er.UnauthenticatedCode, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, er.New(er.UnauthenticatedCode, "invalid credentials")
	}

	accessToken, err := s.tokenMaker.CreateToken(user.ID, user.Role,
		time.Duration(constants.AccessTokenDuration)*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return accessToken, user, nil
}

var _ IAuthService = (*AuthService)(nil)
