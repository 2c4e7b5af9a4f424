package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mail"
)

// Claims carried by the access token. Role and the superuser flag ride along
// for observability; policies still authorize against the persisted user row.
type Claims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RequestCode(ctx context.Context, username, email string) error
	ExchangeCode(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	codes     *auth.CodeGenerator
	mailer    mail.Mailer
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *auth.CodeGenerator,
	mailer mail.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		codes:     codes,
		mailer:    mailer,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
	}
}

// RequestCode creates (or finds) the user and emails a confirmation code.
// Re-requesting with the exact existing (username, email) pair is an
// idempotent success: nothing is written and nothing is sent.
func (s *authService) RequestCode(ctx context.Context, username, email string) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing.Email == email {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if ve := validateUsername(username, true); ve != nil {
		return ve
	}
	if ve := validateEmail(email); ve != nil {
		return ve
	}

	// the pair must not collide with a different identity
	if existing != nil {
		return FieldError("username", "пользователь с таким именем уже существует")
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return FieldError("email", "пользователь с таким email уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	code := s.codes.Generate(user, time.Now())
	return s.mailer.SendConfirmationCode(email, code)
}

// ExchangeCode verifies the confirmation code against the user's current
// state and mints a bearer token. A bad or stale code is a validation error
// (400), never an authentication error.
func (s *authService) ExchangeCode(ctx context.Context, username, code string) (string, error) {
	if ve := validateUsername(username, false); ve != nil {
		return "", ve
	}
	if code == "" {
		return "", FieldError("confirmation_code", "обязательное поле")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	now := time.Now()
	if !s.codes.Check(user, code, now) {
		return "", FieldError("confirmation_code", "неверный или устаревший код подтверждения")
	}

	// bumping last_login invalidates the code, making it single use
	user.LastLogin = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		return "", err
	}

	return s.generateAccessToken(user, now)
}

func (s *authService) generateAccessToken(user *models.User, now time.Time) (string, error) {
	claims := &Claims{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
