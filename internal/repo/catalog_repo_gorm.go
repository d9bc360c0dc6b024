package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

// catalogTable 描述一种可报名/申请资源的表结构差异
type catalogTable struct {
	name       string
	table      string
	ownerCol   string
	searchCols []string
	filter     func(q *gorm.DB, lq domain.ListQuery) *gorm.DB

	joinTable  string
	joinFK     string
	membership func(id, studentID string) any
	afterJoin  func(tx *gorm.DB, id string) error
	duplicate  string
}

// CatalogRepo courses/jobs/scholarships 的通用 gorm 实现
type CatalogRepo[T any] struct {
	db  *gorm.DB
	tbl catalogTable
}

func NewCourseRepo(db *gorm.DB) *CatalogRepo[domain.Course] {
	return &CatalogRepo[domain.Course]{db: db, tbl: catalogTable{
		name:       "course",
		table:      "courses",
		ownerCol:   "created_by",
		searchCols: []string{"title", "description"},
		filter: func(q *gorm.DB, lq domain.ListQuery) *gorm.DB {
			if lq.Category != "" {
				q = q.Where("category = ?", lq.Category)
			}
			if lq.Level != "" {
				q = q.Where("level = ?", lq.Level)
			}
			return q
		},
		joinTable: "course_enrollments",
		joinFK:    "course_id",
		membership: func(id, sid string) any {
			return &domain.CourseEnrollment{CourseID: id, StudentID: sid}
		},
		duplicate: "already enrolled in this course",
	}}
}

func NewScholarshipRepo(db *gorm.DB) *CatalogRepo[domain.Scholarship] {
	return &CatalogRepo[domain.Scholarship]{db: db, tbl: catalogTable{
		name:       "scholarship",
		table:      "scholarships",
		ownerCol:   "created_by",
		searchCols: []string{"title", "description"},
		filter: func(q *gorm.DB, lq domain.ListQuery) *gorm.DB {
			if lq.Category != "" {
				q = q.Where("category = ?", lq.Category)
			}
			return q
		},
		joinTable: "scholarship_applications",
		joinFK:    "scholarship_id",
		membership: func(id, sid string) any {
			return &domain.ScholarshipApplication{ScholarshipID: id, StudentID: sid, Status: domain.ApplicationApplied}
		},
		afterJoin: func(tx *gorm.DB, id string) error {
			return tx.Model(&domain.Scholarship{}).Where("id = ?", id).
				UpdateColumn("application_count", gorm.Expr("application_count + ?", 1)).Error
		},
		duplicate: "already applied for this scholarship",
	}}
}

type JobRepo struct {
	*CatalogRepo[domain.Job]
}

func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{&CatalogRepo[domain.Job]{db: db, tbl: catalogTable{
		name:       "job",
		table:      "jobs",
		ownerCol:   "recruiter_id",
		searchCols: []string{"title", "description", "company"},
		filter: func(q *gorm.DB, lq domain.ListQuery) *gorm.DB {
			if lq.JobType != "" {
				q = q.Where("job_type = ?", lq.JobType)
			}
			return whereContains(q, lq.Location, "location")
		},
		joinTable: "job_applications",
		joinFK:    "job_id",
		membership: func(id, sid string) any {
			return &domain.JobApplication{JobID: id, StudentID: sid, Status: domain.ApplicationApplied}
		},
		duplicate: "already applied for this job",
	}}}
}

func (r *CatalogRepo[T]) List(ctx context.Context, lq domain.ListQuery) ([]T, int64, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	if r.tbl.filter != nil {
		tx = r.tbl.filter(tx, lq)
	}
	tx = whereContains(tx, lq.Search, r.tbl.searchCols...)

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.tbl.table, err)
	}
	var out []T
	if err := tx.Order("created_at desc").Order("id").
		Offset(lq.Offset()).Limit(lq.Limit).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.tbl.table, err)
	}
	return out, total, nil
}

func (r *CatalogRepo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var m T
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.tbl.name, err)
	}
	return &m, nil
}

func (r *CatalogRepo[T]) Create(ctx context.Context, m *T) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.tbl.name, err)
	}
	return nil
}

// Update 全字段覆盖，保留 id/created_at/owner
func (r *CatalogRepo[T]) Update(ctx context.Context, m *T) error {
	res := r.db.WithContext(ctx).Model(m).
		Select("*").Omit("id", "created_at", r.tbl.ownerCol).Updates(m)
	if res.Error != nil {
		return fmt.Errorf("update %s: %w", r.tbl.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.tbl.name + " not found")
	}
	return nil
}

func (r *CatalogRepo[T]) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(new(T))
		if res.Error != nil {
			return fmt.Errorf("delete %s: %w", r.tbl.name, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(r.tbl.name + " not found")
		}
		return tx.Exec("DELETE FROM "+r.tbl.joinTable+" WHERE "+r.tbl.joinFK+" = ?", id).Error
	})
}

func (r *CatalogRepo[T]) Join(ctx context.Context, id, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("check %s: %w", r.tbl.name, err)
		}
		if n == 0 {
			return apperr.NotFound(r.tbl.name + " not found")
		}
		if err := tx.Create(r.tbl.membership(id, studentID)).Error; err != nil {
			if isDupKey(err) {
				return apperr.AlreadyExists(r.tbl.duplicate)
			}
			return fmt.Errorf("join %s: %w", r.tbl.name, err)
		}
		if r.tbl.afterJoin != nil {
			return r.tbl.afterJoin(tx, id)
		}
		return nil
	})
}

func (r *CatalogRepo[T]) ListJoined(ctx context.Context, studentID string) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).Model(new(T)).
		Joins("JOIN "+r.tbl.joinTable+" m ON m."+r.tbl.joinFK+" = "+r.tbl.table+".id").
		Where("m.student_id = ?", studentID).
		Order("m.created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list joined %s: %w", r.tbl.table, err)
	}
	return out, nil
}

func (r *CatalogRepo[T]) ListOwned(ctx context.Context, ownerID string) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).
		Where(r.tbl.ownerCol+" = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list owned %s: %w", r.tbl.table, err)
	}
	return out, nil
}

func (r *CatalogRepo[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

type applicantRow struct {
	StudentID string
	Name      string
	Email     string
	Skills    string
	ResumeKey string
	Status    domain.ApplicationStatus
	CreatedAt time.Time
}

// Applicants 申请人按申请时间升序；已封禁账号不返回
func (r *JobRepo) Applicants(ctx context.Context, jobID string) ([]domain.Applicant, error) {
	var rows []applicantRow
	err := r.db.WithContext(ctx).
		Table("job_applications AS a").
		Select("a.student_id, u.name, u.email, u.skills, u.resume_key, a.status, a.created_at").
		Joins("JOIN users u ON u.id = a.student_id AND u.deleted_at IS NULL").
		Where("a.job_id = ?", jobID).
		Order("a.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	out := make([]domain.Applicant, 0, len(rows))
	for _, row := range rows {
		a := domain.Applicant{
			StudentID: row.StudentID,
			Name:      row.Name,
			Email:     row.Email,
			Skills:    []string{},
			HasResume: row.ResumeKey != "",
			Status:    row.Status,
			AppliedAt: row.CreatedAt,
		}
		if row.Skills != "" {
			_ = json.Unmarshal([]byte(row.Skills), &a.Skills)
		}
		out = append(out, a)
	}
	return out, nil
}
