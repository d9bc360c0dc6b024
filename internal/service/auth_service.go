package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/auth"
	"success-sprout/internal/domain"
	"success-sprout/pkg/utils"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt 上限
)

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,max=64"`
	Email    string      `json:"email" binding:"required,email,max=191"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Role     domain.Role `json:"role" binding:"omitempty,oneof=student recruiter"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileInput struct {
	Name         *string   `json:"name" binding:"omitempty,min=1,max=64"`
	Phone        *string   `json:"phone" binding:"omitempty,max=32"`
	ProfileImage *string   `json:"profileImage" binding:"omitempty,max=512"`
	Bio          *string   `json:"bio" binding:"omitempty,max=2000"`
	Skills       *[]string `json:"skills" binding:"omitempty,max=50,dive,max=64"`
	Experience   *string   `json:"experience" binding:"omitempty,max=255"`
	Education    *string   `json:"education" binding:"omitempty,max=255"`
}

type AuthResult struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	UserID  string            `json:"userId"`
	Name    string            `json:"name,omitempty"`
	User    domain.PublicUser `json:"user"`
}

type AuthService struct {
	users  domain.UserRepository
	tokens *auth.JWTer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens *auth.JWTer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("invalid email")
	}
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		return nil, apperr.Validation(fmt.Sprintf("password must be %d-%d characters", minPasswordLen, maxPasswordLen))
	}
	switch in.Role {
	case "":
		in.Role = domain.RoleStudent
	case domain.RoleStudent, domain.RoleRecruiter:
	default:
		// admin 只能通过种子账号或管理端授予
		return nil, apperr.Validation("role must be student or recruiter")
	}

	exist, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, apperr.AlreadyExists("email already registered")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u := &domain.User{
		ID:            utils.NewID(),
		Email:         in.Email,
		Name:          in.Name,
		PasswordHash:  hash,
		Role:          in.Role,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	tok, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &AuthResult{Message: "User registered successfully", Token: tok, UserID: u.ID, User: u.Public()}, nil
}

// Login 邮箱不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("email and password required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	now := s.now().UTC()
	if err := s.users.TouchLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("update last login failed", zap.String("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLoginAt = &now
	}
	tok, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &AuthResult{Message: "Login successful", Token: tok, UserID: u.ID, Name: u.Name, User: u.Public()}, nil
}

// Authenticate 校验 bearer token 并加载当前账号；已封禁（软删）账号视为不存在
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("token expired")
		}
		return nil, apperr.Unauthenticated("invalid token")
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthenticated("user not found")
	}
	return u, nil
}

func (s *AuthService) Profile(ctx context.Context, id string) (*domain.PublicUser, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	p := u.Public()
	return &p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*domain.PublicUser, error) {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		in.Name = &n
	}
	if in.Skills != nil {
		skills := make([]string, 0, len(*in.Skills))
		for _, sk := range *in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				skills = append(skills, sk)
			}
		}
		in.Skills = &skills
	}
	u, err := s.users.UpdateProfile(ctx, id, domain.ProfilePatch{
		Name:         in.Name,
		Phone:        in.Phone,
		ProfileImage: in.ProfileImage,
		Bio:          in.Bio,
		Skills:       in.Skills,
		Experience:   in.Experience,
		Education:    in.Education,
	})
	if err != nil {
		return nil, err
	}
	p := u.Public()
	return &p, nil
}

// EnsureAdmin 按配置播种管理员；邮箱已存在时只校正角色
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (created bool, err error) {
	email = domain.NormalizeEmail(email)
	if email == "" || len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return false, apperr.Validation("admin seed requires email and a 6-72 character password")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Administrator"
	}
	exist, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exist != nil {
		if exist.Role != domain.RoleAdmin {
			if _, err := s.users.SetRole(ctx, exist.ID, domain.RoleAdmin); err != nil {
				return false, err
			}
			s.log.Info("promoted seed account to admin", zap.String("user_id", exist.ID))
		}
		return false, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, apperr.Internal("hash password", err)
	}
	u := &domain.User{
		ID:            utils.NewID(),
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		IsVerified:    true,
		Active:        true,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	s.log.Info("admin account seeded", zap.String("user_id", u.ID), zap.String("email", email))
	return true, nil
}
