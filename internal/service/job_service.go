package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

type SalaryInput struct {
	Min      *float64 `json:"min" binding:"omitempty,min=0"`
	Max      *float64 `json:"max" binding:"omitempty,min=0"`
	Currency string   `json:"currency" binding:"omitempty,len=3"`
}

type JobInput struct {
	Title            string           `json:"title" binding:"omitempty,max=200"`
	Description      string           `json:"description"`
	Company          string           `json:"company" binding:"omitempty,max=128"`
	Location         string           `json:"location" binding:"omitempty,max=128"`
	JobType          domain.JobType   `json:"jobType" binding:"omitempty,oneof=full-time part-time contract remote internship"`
	Salary           *SalaryInput     `json:"salary"`
	Requirements     []string         `json:"requirements"`
	Responsibilities []string         `json:"responsibilities"`
	Skills           []string         `json:"skills"`
	Experience       *string          `json:"experience" binding:"omitempty,max=128"`
	Status           domain.JobStatus `json:"status" binding:"omitempty,oneof=open closed filled"`
	Deadline         *time.Time       `json:"deadline"`
}

type JobService struct {
	*CatalogService[domain.Job, JobInput]
	jobs domain.JobRepository
}

func NewJobService(repo domain.JobRepository, log *zap.Logger) *JobService {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobService{
		CatalogService: &CatalogService[domain.Job, JobInput]{name: "job", repo: repo, build: buildJob, merge: mergeJob, log: log},
		jobs:           repo,
	}
}

// Applicants 仅发布者本人或管理员可见
func (s *JobService) Applicants(ctx context.Context, caller *domain.User, id string) ([]domain.Applicant, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.jobs.Applicants(ctx, id)
}

func buildJob(id, owner string, in *JobInput) (*domain.Job, error) {
	if err := requireFields(
		field{"title", in.Title},
		field{"description", in.Description},
		field{"company", in.Company},
		field{"location", in.Location},
		field{"jobType", string(in.JobType)},
	); err != nil {
		return nil, err
	}
	j := &domain.Job{
		ID:               id,
		RecruiterID:      owner,
		Status:           domain.JobOpen,
		Salary:           domain.Salary{Currency: "USD"},
		Requirements:     []string{},
		Responsibilities: []string{},
		Skills:           []string{},
	}
	if err := mergeJob(j, in); err != nil {
		return nil, err
	}
	return j, nil
}

func mergeJob(j *domain.Job, in *JobInput) error {
	setStr(&j.Title, in.Title)
	setStr(&j.Description, in.Description)
	setStr(&j.Company, in.Company)
	setStr(&j.Location, in.Location)
	if in.JobType != "" {
		if !in.JobType.Valid() {
			return apperr.Validation("invalid jobType")
		}
		j.JobType = in.JobType
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return apperr.Validation("status must be open, closed or filled")
		}
		j.Status = in.Status
	}
	if in.Salary != nil {
		if in.Salary.Min != nil {
			j.Salary.Min = in.Salary.Min
		}
		if in.Salary.Max != nil {
			j.Salary.Max = in.Salary.Max
		}
		setStr(&j.Salary.Currency, in.Salary.Currency)
	}
	if j.Salary.Min != nil && j.Salary.Max != nil && *j.Salary.Min > *j.Salary.Max {
		return apperr.Validation("salary min cannot exceed max")
	}
	if in.Requirements != nil {
		j.Requirements = cleanList(in.Requirements)
	}
	if in.Responsibilities != nil {
		j.Responsibilities = cleanList(in.Responsibilities)
	}
	if in.Skills != nil {
		j.Skills = cleanList(in.Skills)
	}
	if in.Experience != nil {
		j.Experience = *in.Experience
	}
	if in.Deadline != nil {
		d := in.Deadline.UTC()
		j.Deadline = &d
	}
	return nil
}
