package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

var (
	// ErrInvalidCredentials signals a failed email/password check. Login never
	// reveals which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken signals a registration against an already used email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidToken signals a missing, malformed, expired or revoked credential.
	ErrInvalidToken = errors.New("invalid or revoked token")
	// ErrWrongPassword signals a password change with a wrong current password.
	ErrWrongPassword = errors.New("current password is incorrect")
)

const tokenCachePrefix = "auth:token:"

// AuthService manages accounts and bearer credentials. Each issued JWT
// carries a jti backed by a database record, so a credential stays valid
// only while its record exists. Redis caches the record lookup.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context, tokenID string) error
	Validate(ctx context.Context, tokenString string) (Actor, string, error)
	Profile(ctx context.Context, actor Actor) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, payload dto.ChangePasswordRequest) error
	TokenInfo(ctx context.Context, tokenID string) (dto.TokenInfoResponse, error)
	RefreshToken(ctx context.Context, actor Actor, tokenID string) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    repository.TokenRepository
	redis     *redis.Client
	secret    []byte
	tokenTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

type cachedToken struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
}

// NewAuthService constructs the auth service. redisClient may be nil; token
// validation then always hits the database.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	redisClient *redis.Client,
	secret string,
	tokenTTL time.Duration,
	validate *validator.Validate,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		redis:     redisClient,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	role := models.Role(payload.Role)
	if payload.Role == "" {
		role = models.RoleParent
	}
	if !role.Valid() {
		return dto.AuthResponse{}, fmt.Errorf("unknown role %q", payload.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash: string(hash),
		Role:         role,
		Phone:        payload.Phone,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("account registered")

	return s.issue(ctx, user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// issue mints a signed JWT whose jti is backed by a database record.
func (s *authService) issue(ctx context.Context, user models.User) (dto.AuthResponse, error) {
	record := models.AuthToken{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	if err := s.tokens.Create(ctx, &record); err != nil {
		return dto.AuthResponse{}, err
	}

	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": string(user.Role),
		"jti":  record.ID,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(s.tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.cacheToken(ctx, record.ID, cachedToken{UserID: user.ID, Role: user.Role})

	return dto.AuthResponse{Token: signed, User: dto.NewUserResponse(user)}, nil
}

// Validate parses the bearer credential and checks that its backing record
// still exists. It returns the acting identity and the token id.
func (s *authService) Validate(ctx context.Context, tokenString string) (Actor, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, "", ErrInvalidToken
	}
	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return Actor{}, "", ErrInvalidToken
	}

	if cached, ok := s.lookupCache(ctx, tokenID); ok {
		return Actor{ID: cached.UserID, Role: cached.Role}, tokenID, nil
	}

	record, err := s.tokens.Get(ctx, tokenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Actor{}, "", ErrInvalidToken
	}
	if err != nil {
		return Actor{}, "", err
	}
	if record.User == nil {
		return Actor{}, "", ErrInvalidToken
	}

	s.cacheToken(ctx, tokenID, cachedToken{UserID: record.UserID, Role: record.User.Role})

	return Actor{ID: record.UserID, Role: record.User.Role}, tokenID, nil
}

// Logout revokes the credential by deleting its record. Revoking an already
// revoked token is not an error.
func (s *authService) Logout(ctx context.Context, tokenID string) error {
	s.dropCache(ctx, tokenID)
	if err := s.tokens.Delete(ctx, tokenID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) Profile(ctx context.Context, actor Actor) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, ErrUserNotFound
	}
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, actor.ID)
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

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// ChangePassword verifies the current password, rehashes, and revokes every
// outstanding credential of the account.
func (s *authService) ChangePassword(ctx context.Context, actor Actor, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to revoke outstanding tokens")
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *authService) TokenInfo(ctx context.Context, tokenID string) (dto.TokenInfoResponse, error) {
	record, err := s.tokens.Get(ctx, tokenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TokenInfoResponse{}, ErrInvalidToken
	}
	if err != nil {
		return dto.TokenInfoResponse{}, err
	}

	prefix := record.ID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}

	info := dto.TokenInfoResponse{
		TokenPrefix: prefix,
		IssuedAt:    record.CreatedAt,
	}
	if record.User != nil {
		info.User = dto.NewUserResponse(*record.User)
	}
	return info, nil
}

// RefreshToken issues a fresh credential and revokes the presented one.
func (s *authService) RefreshToken(ctx context.Context, actor Actor, tokenID string) (dto.AuthResponse, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, ErrUserNotFound
	}
	if err != nil {
		return dto.AuthResponse{}, err
	}

	response, err := s.issue(ctx, user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if err := s.Logout(ctx, tokenID); err != nil {
		s.logger.Warn().Err(err).Str("token_id", tokenID).Msg("failed to revoke refreshed token")
	}

	return response, nil
}

func (s *authService) cacheToken(ctx context.Context, tokenID string, value cachedToken) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, tokenCachePrefix+tokenID, payload, s.tokenTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache token")
	}
}

func (s *authService) lookupCache(ctx context.Context, tokenID string) (cachedToken, bool) {
	if s.redis == nil {
		return cachedToken{}, false
	}
	payload, err := s.redis.Get(ctx, tokenCachePrefix+tokenID).Bytes()
	if err != nil {
		return cachedToken{}, false
	}
	var value cachedToken
	if err := json.Unmarshal(payload, &value); err != nil {
		return cachedToken{}, false
	}
	return value, true
}

func (s *authService) dropCache(ctx context.Context, tokenID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, tokenCachePrefix+tokenID).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to drop cached token")
	}
}
