package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
	"success-sprout/pkg/utils"
)

// CatalogService courses/jobs/scholarships 共用的业务流程：
// 列表分页、按角色创建、所有者或管理员修改删除、学生报名/申请
type CatalogService[T domain.Owned, In any] struct {
	name  string
	repo  domain.CatalogRepository[T]
	build func(id, owner string, in *In) (*T, error)
	merge func(m *T, in *In) error
	log   *zap.Logger
}

func canPublish(u *domain.User) bool {
	return u != nil && (u.Role == domain.RoleRecruiter || u.Role == domain.RoleAdmin)
}

func (s *CatalogService[T, In]) List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error) {
	q = q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(items, total, q), nil
}

func (s *CatalogService[T, In]) Get(ctx context.Context, id string) (*T, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound(s.name + " not found")
	}
	return m, nil
}

func (s *CatalogService[T, In]) Create(ctx context.Context, caller *domain.User, in *In) (*T, error) {
	if !canPublish(caller) {
		return nil, apperr.Forbidden("only recruiters and admins can create a " + s.name)
	}
	m, err := s.build(utils.NewID(), caller.ID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info(s.name+" created", zap.String("owner_id", caller.ID))
	return m, nil
}

func (s *CatalogService[T, In]) Update(ctx context.Context, caller *domain.User, id string, in *In) (*T, error) {
	m, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.merge(m, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *CatalogService[T, In]) Delete(ctx context.Context, caller *domain.User, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(s.name+" deleted", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}

// owned 加载资源并执行唯一的所有权判定
func (s *CatalogService[T, In]) owned(ctx context.Context, caller *domain.User, id string) (*T, error) {
	if !canPublish(caller) {
		return nil, apperr.Forbidden("insufficient role")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(caller, *m) {
		return nil, apperr.Forbidden("not the owner of this " + s.name)
	}
	return m, nil
}

func (s *CatalogService[T, In]) Join(ctx context.Context, caller *domain.User, id string) error {
	if caller == nil || caller.Role != domain.RoleStudent {
		return apperr.Forbidden("only students can enroll or apply")
	}
	return s.repo.Join(ctx, id, caller.ID)
}

func (s *CatalogService[T, In]) Joined(ctx context.Context, caller *domain.User) ([]T, error) {
	items, err := s.repo.ListJoined(ctx, caller.ID)
	if items == nil {
		items = []T{}
	}
	return items, err
}

func (s *CatalogService[T, In]) Owned(ctx context.Context, caller *domain.User) ([]T, error) {
	items, err := s.repo.ListOwned(ctx, caller.ID)
	if items == nil {
		items = []T{}
	}
	return items, err
}

type field struct{ name, value string }

func requireFields(fs ...field) error {
	var missing []string
	for _, f := range fs {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
