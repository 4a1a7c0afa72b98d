package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, token.Maker) {
	userRepo := newFakeUserRepo()
	tokenMaker, err := token.NewJWTMaker("01234567890123456789012345678901")
	require.NoError(t, err)
	return NewAuthService(userRepo, tokenMaker), userRepo, tokenMaker
}

func TestRegister(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "Jane", "Doe", "Jane@Example.com", "secret123")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	// email正規化為小寫
	require.Equal(t, "jane@example.com", user.Email)
	require.Equal(t, "customer", user.Role)
	require.True(t, user.IsActive)
	// 不可存明碼
	require.NotEqual(t, "secret123", user.Password)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	tests := []struct {
		name                               string
		firstName, lastName, email, passwd string
	}{
		{"missing name", "", "Doe", "jane@example.com", "secret123"},
		{"bad email", "Jane", "Doe", "not-an-email", "secret123"},
		{"short password", "Jane", "Doe", "jane@example.com", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.firstName, tt.lastName, tt.email, tt.passwd)
			require.Equal(t, er.InvalidArgumentCode, er.CodeOf(err))
		})
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), "Jane", "Doe", "jane@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "John", "Smith", "jane@example.com", "secret456")
	require.Equal(t, er.ConflictCode, er.CodeOf(err))
}

func TestLogin(t *testing.T) {
	svc, _, tokenMaker := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), "Jane", "Doe", "jane@example.com", "secret123")
	require.NoError(t, err)

	accessToken, user, err := svc.Login(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	payload, err := tokenMaker.VerifyToken(accessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, payload.UserID)
	require.Equal(t, "customer", payload.Role)
}

// 帳號不存在與密碼錯誤要回同一種錯, 不可洩漏帳號是否存在
func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), "Jane", "Doe", "jane@example.com", "secret123")
	require.NoError(t, err)

	_, _, errWrongPassword := svc.Login(context.Background(), "jane@example.com", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "ghost@example.com", "secret123")

	require.Equal(t, er.UnauthenticatedCode, er.CodeOf(errWrongPassword))
	require.Equal(t, er.UnauthenticatedCode, er.CodeOf(errNoUser))
	require.Equal(t, errWrongPassword.Error(), errNoUser.Error())
}

func TestLogin_DeactivatedUser(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "Jane", "Doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, userRepo.DeactivateUser(context.Background(), user.ID))

	_, _, err = svc.Login(context.Background(), "jane@example.com", "secret123")
	require.Equal(t, er.UnauthenticatedCode, er.CodeOf(err))
}
