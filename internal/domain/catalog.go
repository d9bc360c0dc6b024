package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// Owned 可归属资源；所有权判定统一走 CanMutate
type Owned interface {
	Owner() string
}

// CanMutate 管理员放行，其余要求 owner == caller
func CanMutate(caller *User, res Owned) bool {
	if caller == nil || res == nil {
		return false
	}
	if caller.Role == RoleAdmin {
		return true
	}
	return res.Owner() != "" && res.Owner() == caller.ID
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery 列表查询；不同资源只用到其中部分筛选字段
type ListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Level    string `form:"level"`
	JobType  string `form:"jobType"`
	Location string `form:"location"`
}

func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	q.Level = strings.TrimSpace(q.Level)
	q.JobType = strings.TrimSpace(q.JobType)
	q.Location = strings.TrimSpace(q.Location)
	return q
}

func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func NewPage[T any](items []T, total int64, q ListQuery) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Total: total,
			Page:  q.Page,
			Limit: q.Limit,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}
}

type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationUnderReview ApplicationStatus = "under-review"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// Applicant 招聘方查看的申请人视图
type Applicant struct {
	StudentID string            `json:"studentId"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Skills    []string          `json:"skills"`
	HasResume bool              `json:"hasResume"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"appliedAt"`
}

// CatalogRepository courses/jobs/scholarships 共用的存取约定；FindByID 未命中返回 (nil, nil)
type CatalogRepository[T any] interface {
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, m *T) error
	Update(ctx context.Context, m *T) error
	Delete(ctx context.Context, id string) error
	// Join 报名/申请；同一 (资源, 学生) 重复时返回 AlreadyExists
	Join(ctx context.Context, id, studentID string) error
	ListJoined(ctx context.Context, studentID string) ([]T, error)
	ListOwned(ctx context.Context, ownerID string) ([]T, error)
	Count(ctx context.Context) (int64, error)
}

type JobRepository interface {
	CatalogRepository[Job]
	Applicants(ctx context.Context, jobID string) ([]Applicant, error)
}
