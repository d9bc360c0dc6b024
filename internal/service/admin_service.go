package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/cache"
	"success-sprout/internal/domain"
)

const dashboardKey = "admin:dashboard"

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type Dashboard struct {
	Users             int64     `json:"users"`
	Courses           int64     `json:"courses"`
	Jobs              int64     `json:"jobs"`
	Scholarships      int64     `json:"scholarships"`
	CompletedPayments int64     `json:"completedPayments"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

type UserListQuery struct {
	Page          int         `form:"page"`
	Limit         int         `form:"limit"`
	Search        string      `form:"search"`
	Role          domain.Role `form:"role" binding:"omitempty,oneof=student recruiter admin"`
	IncludeBanned bool        `form:"includeBanned"`
}

type RoleInput struct {
	Role domain.Role `json:"role" binding:"required,oneof=student recruiter admin"`
}

type AdminService struct {
	users        domain.UserRepository
	courses      counter
	jobs         counter
	scholarships counter
	pays         domain.PaymentRepository
	cache        *cache.Cache
	ttl          time.Duration
	log          *zap.Logger
}

func NewAdminService(
	users domain.UserRepository,
	courses, jobs, scholarships counter,
	pays domain.PaymentRepository,
	c *cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AdminService{users: users, courses: courses, jobs: jobs, scholarships: scholarships, pays: pays, cache: c, ttl: ttl, log: log}
}

// Dashboard 计数走 redis 读穿缓存；未启用 redis 时直接查询
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	return cache.GetOrLoadJSON[Dashboard](s.cache, ctx, dashboardKey, s.ttl, func(ctx context.Context) (*Dashboard, error) {
		var (
			d   = Dashboard{GeneratedAt: time.Now().UTC()}
			err error
		)
		if d.Users, err = s.users.Count(ctx); err != nil {
			return nil, err
		}
		if d.Courses, err = s.courses.Count(ctx); err != nil {
			return nil, err
		}
		if d.Jobs, err = s.jobs.Count(ctx); err != nil {
			return nil, err
		}
		if d.Scholarships, err = s.scholarships.Count(ctx); err != nil {
			return nil, err
		}
		if d.CompletedPayments, err = s.pays.CountCompleted(ctx); err != nil {
			return nil, err
		}
		return &d, nil
	})
}

func (s *AdminService) ListUsers(ctx context.Context, q UserListQuery) (domain.Page[domain.PublicUser], error) {
	lq := domain.ListQuery{Page: q.Page, Limit: q.Limit, Search: q.Search}.Normalize()
	users, total, err := s.users.List(ctx, domain.UserFilter{
		Q:           lq.Search,
		Role:        q.Role,
		WithDeleted: q.IncludeBanned,
	}, lq.Offset(), lq.Limit)
	if err != nil {
		return domain.Page[domain.PublicUser]{}, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return domain.NewPage(out, total, lq), nil
}

// Ban 软删除账号；已签发的 token 在鉴权时查不到账号而失效
func (s *AdminService) Ban(ctx context.Context, caller *domain.User, id string) error {
	id = strings.TrimSpace(id)
	if id == caller.ID {
		return apperr.Validation("cannot ban yourself")
	}
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user not found")
	}
	s.log.Info("user banned", zap.String("user_id", id), zap.String("by", caller.ID))
	_ = s.cache.Delete(ctx, dashboardKey)
	return nil
}

func (s *AdminService) SetRole(ctx context.Context, caller *domain.User, id string, role domain.Role) (*domain.PublicUser, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}
	if id == caller.ID && role != domain.RoleAdmin {
		return nil, apperr.Validation("cannot demote yourself")
	}
	ok, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	s.log.Info("user role changed", zap.String("user_id", id), zap.String("role", string(role)), zap.String("by", caller.ID))
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
