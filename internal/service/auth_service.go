package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-request-api/internal/dto"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when the address is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWeakPassword is returned when the password misses the policy.
	ErrWeakPassword = errors.New("password must be at least 6 characters with upper and lower case letters")
	// ErrAccountNotApproved is returned for lecturers awaiting approval.
	ErrAccountNotApproved = errors.New("account pending approval")
	// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// AuthService handles registration, login and credential recovery.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	mail      MailSender
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	jwtSecret []byte
	tokenTTL  time.Duration
	resetTTL  time.Duration
}

// NewAuthService constructs an authentication service.
func NewAuthService(users repository.UserRepository, mail MailSender, validate *validator.Validate, logger zerolog.Logger, jwtSecret string, tokenTTL, resetTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}

	return &authService{
		users:     users,
		mail:      mail,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/campus-request-api/internal/service/auth"),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		resetTTL:  resetTTL,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}
	if !dto.ValidPassword(payload.Password) {
		return dto.UserResponse{}, ErrWeakPassword
	}

	spanCtx, span := s.tracer.Start(ctx, "auth.register", trace.WithAttributes(
		attribute.String("auth.role", payload.Role),
	))
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.FindByEmail(spanCtx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	user := models.User{
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         payload.Role,
		DepartmentID: payload.DepartmentID,
		PhoneNumber:  strings.TrimSpace(payload.PhoneNumber),
		IDNumber:     strings.TrimSpace(payload.IDNumber),
		// Lecturers need an admin to approve them before they can sign in.
		IsApproved: payload.Role != models.RoleLecturer,
	}

	if err := s.users.Create(spanCtx, &user); err != nil {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("account registered")
	return dto.NewUserResponse(&user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "auth.login")
	defer span.End()

	user, err := s.users.FindByEmail(spanCtx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		span.RecordError(err)
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if user.Role == models.RoleLecturer && !user.IsApproved {
		return dto.LoginResponse{}, ErrAccountNotApproved
	}

	token, err := s.mintToken(user)
	if err != nil {
		span.RecordError(err)
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("login succeeded")
	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(&user)}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "auth.forgot_password")
	defer span.End()

	user, err := s.users.FindByEmail(spanCtx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not leak which addresses exist.
			return nil
		}
		span.RecordError(err)
		return err
	}

	token := uuid.NewString()
	now := time.Now()
	if err := s.users.SetResetToken(spanCtx, user.ID, token, now); err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.mail.SendPasswordReset(spanCtx, user.Email, token); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("reset mail delivery failed")
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}
	if !dto.ValidPassword(payload.NewPassword) {
		return ErrWeakPassword
	}

	spanCtx, span := s.tracer.Start(ctx, "auth.reset_password")
	defer span.End()

	user, err := s.users.FindByResetToken(spanCtx, strings.TrimSpace(payload.Token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		span.RecordError(err)
		return err
	}

	if user.ResetTokenCreatedAt == nil || time.Since(*user.ResetTokenCreatedAt) > s.resetTTL {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(spanCtx, &user); err != nil {
		span.RecordError(err)
		return err
	}

	return s.users.ClearResetToken(spanCtx, user.ID)
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}
	if !dto.ValidPassword(payload.NewPassword) {
		return ErrWeakPassword
	}

	spanCtx, span := s.tracer.Start(ctx, "auth.change_password")
	defer span.End()

	user, err := s.users.FindByID(spanCtx, userID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return err
	}

	user.PasswordHash = string(hash)
	return s.users.Update(spanCtx, &user)
}

func (s *authService) mintToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	if user.DepartmentID != nil {
		claims["department"] = *user.DepartmentID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
