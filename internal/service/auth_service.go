package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/config"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Claims is the JWT payload for both access and refresh tokens; Use
// distinguishes the two so a refresh token cannot authenticate a request.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// PasswordResetNotifier queues the reset mail off the request path.
type PasswordResetNotifier interface {
	NotifyPasswordReset(email, token string)
}

// AuthService handles registration, login, token refresh and the password
// reset flow.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error

	// ParseToken validates a token string and returns its claims.
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	users    repository.UserRepository
	cfg      *config.Config
	notifier PasswordResetNotifier
}

func NewAuthService(users repository.UserRepository, cfg *config.Config, notifier PasswordResetNotifier) AuthService {
	return &authService{users: users, cfg: cfg, notifier: notifier}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apierror.Internal("hashing password: %v", err)
	}
	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         model.RoleStaff,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apierror.Validation("an account with this email or phone number already exists")
	}
	log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		// Same answer for unknown account and wrong password.
		return nil, apierror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized("invalid credentials")
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := s.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Use != TokenUseRefresh {
		return nil, apierror.Unauthorized("token is not a refresh token")
	}
	userID, err := uuidFromClaims(claims)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.Unauthorized("account no longer exists")
	}
	return s.issueTokens(user)
}

func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the address is registered.
		log.Debug().Str("email", req.Email).Msg("password reset requested for unknown email")
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return apierror.Internal("generating reset token: %v", err)
	}
	token := hex.EncodeToString(buf)
	expires := time.Now().Add(time.Hour)

	user.ResetToken = &token
	user.ResetExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return apierror.Internal("storing reset token: %v", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPasswordReset(user.Email, token)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	user, err := s.users.FindByResetToken(ctx, req.Token)
	if err != nil {
		return apierror.Unauthorized("invalid or expired reset token")
	}
	if user.ResetExpires == nil || user.ResetExpires.Before(time.Now()) {
		return apierror.Unauthorized("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return apierror.Internal("hashing password: %v", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = nil
	user.ResetExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return apierror.Internal("updating password: %v", err)
	}
	log.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessTTL := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	access, err := s.signToken(user, TokenUseAccess, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, TokenUseRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTTL.Seconds()),
		User: dto.UserResponse{
			ID:          user.ID.String(),
			Name:        user.Name,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Role:        user.Role,
			IsVerified:  user.IsVerified,
		},
	}, nil
}

func (s *authService) signToken(user *model.User, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.String(),
		Role:   user.Role,
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apierror.Internal("signing token: %v", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func uuidFromClaims(claims *Claims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apierror.Unauthorized("malformed token subject")
	}
	return id, nil
}
