package service

import (
	"context"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/cache"
	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 员工密码最小长度
const MinPasswordLength = 8

// AuthService 员工认证服务
type AuthService struct {
	cfg       *config.Config
	staffRepo *repository.GormStaffRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, staffRepo *repository.GormStaffRepository) *AuthService {
	return &AuthService{cfg: cfg, staffRepo: staffRepo}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	StaffID  uint   `json:"staff_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(user *models.StaffUser) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 12
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := JWTClaims{
		StaffID:  user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Login 员工登录
func (s *AuthService) Login(username, password string) (*models.StaffUser, string, time.Time, error) {
	user, err := s.staffRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrStaffInactive
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.staffRepo.TouchLogin(user.ID, now); err != nil {
		logger.Warnw("staff_touch_login_failed", "staff_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(user))
	return user, token, expiresAt, nil
}

// ResolveStaff 校验令牌对应账号仍然有效，优先读取缓存
func (s *AuthService) ResolveStaff(ctx context.Context, claims *JWTClaims) (*cache.StaffAuthState, error) {
	if claims == nil || claims.StaffID == 0 {
		return nil, ErrInvalidToken
	}
	state, hit, err := cache.GetStaffAuthState(ctx, claims.StaffID)
	if err != nil {
		logger.Warnw("staff_auth_state_cache_failed", "staff_id", claims.StaffID, "error", err)
	}
	if !hit || state == nil {
		user, err := s.staffRepo.GetByID(claims.StaffID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrInvalidToken
		}
		state = cache.BuildStaffAuthState(user)
		_ = cache.SetStaffAuthState(ctx, state)
	}
	if !state.IsActive {
		return nil, ErrStaffInactive
	}
	return state, nil
}
