package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
)

const testJWTSecret = "test-secret"

func newTestAuthService(users *stubUserRepo) AuthService {
	return NewAuthService(users, NewLogMailSender(zerolog.Nop()), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop(), testJWTSecret, time.Hour, time.Hour)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLoginIssuesTokenWithClaims(t *testing.T) {
	deptID := uint(7)
	users := newStubUserRepo(models.User{
		ID: 1, FirstName: "רועי", LastName: "כהן",
		Email: "roy4552@test.com", PasswordHash: hashPassword(t, "Pass123"),
		Role: models.RoleStudent, DepartmentID: &deptID, IsApproved: true,
	})
	svc := newTestAuthService(users)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "roy4552@test.com", Password: "Pass123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "roy4552@test.com", resp.User.Email)
	require.Equal(t, models.RoleStudent, resp.User.Role)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, 1, claims["sub"])
	require.Equal(t, "student", claims["role"])
	require.EqualValues(t, 7, claims["department"])
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	users := newStubUserRepo(models.User{
		ID: 1, Email: "roy4552@test.com", PasswordHash: hashPassword(t, "Pass123"), Role: models.RoleStudent,
	})
	svc := newTestAuthService(users)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "roy4552@test.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@test.com", Password: "Pass123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRegisterEnforcesPasswordPolicy(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	base := dto.RegisterRequest{
		FirstName: "רועי", LastName: "כהן", Email: "new@test.com",
		Role: models.RoleStudent, IDNumber: "123456789",
	}

	for _, password := range []string{"pass123", "PASS123", "Pa1"} {
		payload := base
		payload.Password = password
		_, err := svc.Register(context.Background(), payload)
		require.Error(t, err, "password %q should be rejected", password)
	}

	payload := base
	payload.Password = "Pass123"
	user, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, "new@test.com", user.Email)
	require.True(t, user.IsApproved)
}

func TestAuthServiceLecturersStartUnapproved(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName: "יעל", LastName: "ברק", Email: "yael@test.com",
		Password: "Pass123", Role: models.RoleLecturer, IDNumber: "987654321",
	})
	require.NoError(t, err)
	require.False(t, user.IsApproved)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "yael@test.com", Password: "Pass123"})
	require.Error(t, err)
}

func TestAuthServiceResetPasswordFlow(t *testing.T) {
	users := newStubUserRepo(models.User{
		ID: 1, Email: "roy4552@test.com", PasswordHash: hashPassword(t, "Pass123"), Role: models.RoleStudent,
	})
	svc := newTestAuthService(users)

	require.NoError(t, svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "roy4552@test.com"}))

	stored, err := users.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)

	require.NoError(t, svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Token:       stored.ResetToken,
		NewPassword: "NewPass456",
	}))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "roy4552@test.com", Password: "NewPass456"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: "stale", NewPassword: "NewPass456"})
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}
