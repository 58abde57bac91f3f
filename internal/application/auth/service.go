package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
)

// Service xử lý đăng ký, đăng nhập và hồ sơ người dùng. Token là JWT
// HS256 với claims sub/email/role.
type Service struct {
	users  repository.UserRepository
	secret string
	ttl    time.Duration
}

func NewService(users repository.UserRepository, secret string, ttlHours int) *Service {
	if ttlHours <= 0 {
		ttlHours = 72
	}
	return &Service{
		users:  users,
		secret: secret,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}
}

type RegisterCommand struct {
	Email    string
	Password string
	Name     string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Name == "" {
		return nil, domain.ErrMissingField
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := domain.NewUser(uuid.NewString(), email, string(hash), cmd.Name)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login xác thực email/password và trả về token cùng user. Sai email
// hay sai password đều trả ErrBadCredentials, không phân biệt.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrBadCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrBadCredentials
	}

	token, err := s.signToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

type UpdateProfileCommand struct {
	Name     string
	ShopName string
	Password string
}

// UpdateProfile chỉ thay các field khác rỗng.
func (s *Service) UpdateProfile(ctx context.Context, userID string, cmd UpdateProfileCommand) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != "" {
		u.Name = cmd.Name
	}
	if cmd.ShopName != "" {
		u.ShopName = cmd.ShopName
	}
	if cmd.Password != "" {
		if len(cmd.Password) < 6 {
			return nil, fmt.Errorf("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// ChangeRole là thao tác admin.
func (s *Service) ChangeRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) signToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
