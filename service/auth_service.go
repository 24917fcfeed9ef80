package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"social_graph/model"
	"social_graph/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const revokedTokenPrefix = "revoked_token:"

var (
	errTokenMissing = utils.UnauthorizedError("Authentication token missing")
	errTokenInvalid = utils.UnauthorizedError("Wrong authentication token")
)

// Claims JWT 声明
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenData 签发的令牌
type TokenData struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // 秒
}

type AuthService struct {
	db     *gorm.DB
	rdb    *redis.Client // 可为 nil：不支持吊销
	secret []byte
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, rdb *redis.Client, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		db:     db,
		rdb:    rdb,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login 邮箱 + 密码登录
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *TokenData, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, utils.ConflictError(fmt.Sprintf("This email %s was not found", req.Email))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, utils.ConflictError("Invalid Details")
	}

	tokenData, err := s.CreateToken(user.UserID)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokenData, nil
}

// CreateToken 签发 HS256 令牌
func (s *AuthService) CreateToken(userID string) (*TokenData, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenData{Token: token, ExpiresIn: int64(s.ttl / time.Second)}, nil
}

// ParseToken 校验签名、算法和有效期
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, errTokenInvalid
	}
	return claims, nil
}

// Authenticate 校验令牌并加载用户（吊销或用户已删除时拒绝）
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, *Claims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	if s.IsRevoked(ctx, claims.ID) {
		return nil, nil, errTokenInvalid
	}

	var user model.User
	err = s.db.WithContext(ctx).Where("user_id = ?", claims.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errTokenInvalid
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	return &user, claims, nil
}

// RefreshToken 用仍然有效的令牌换新令牌，旧令牌被吊销
func (s *AuthService) RefreshToken(ctx context.Context, tokenString string) (*TokenData, error) {
	user, claims, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	tokenData, err := s.CreateToken(user.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.Revoke(ctx, claims); err != nil {
		return nil, err
	}
	return tokenData, nil
}

// Revoke 将令牌 jti 写入 Redis，直到令牌自然过期
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if s.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, revokedTokenPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked 检查 jti 是否已吊销；Redis 不可用时放行
func (s *AuthService) IsRevoked(ctx context.Context, jti string) bool {
	if s.rdb == nil || jti == "" {
		return false
	}

	n, err := s.rdb.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		slog.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		return false
	}
	return n > 0
}
