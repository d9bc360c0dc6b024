package service

import (
	"time"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

type ScholarshipInput struct {
	Title       string                     `json:"title" binding:"omitempty,max=200"`
	Description string                     `json:"description"`
	Amount      *float64                   `json:"amount" binding:"omitempty,gt=0"`
	Currency    string                     `json:"currency" binding:"omitempty,len=3"`
	Provider    string                     `json:"provider" binding:"omitempty,max=128"`
	Eligibility []string                   `json:"eligibility"`
	Deadline    *time.Time                 `json:"deadline"`
	Link        *string                    `json:"link" binding:"omitempty,max=512"`
	Category    domain.ScholarshipCategory `json:"category" binding:"omitempty,oneof=merit-based need-based diversity field-specific"`
	IsActive    *bool                      `json:"isActive"`
}

type ScholarshipService = CatalogService[domain.Scholarship, ScholarshipInput]

func NewScholarshipService(repo domain.CatalogRepository[domain.Scholarship], log *zap.Logger) *ScholarshipService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScholarshipService{name: "scholarship", repo: repo, build: buildScholarship, merge: mergeScholarship, log: log}
}

func buildScholarship(id, owner string, in *ScholarshipInput) (*domain.Scholarship, error) {
	if err := requireFields(
		field{"title", in.Title},
		field{"description", in.Description},
		field{"provider", in.Provider},
	); err != nil {
		return nil, err
	}
	if in.Amount == nil || in.Deadline == nil {
		return nil, apperr.Validation("missing required fields: amount, deadline")
	}
	s := &domain.Scholarship{
		ID:          id,
		Currency:    "USD",
		Category:    domain.ScholarshipMerit,
		Eligibility: []string{},
		IsActive:    true,
		CreatedBy:   owner,
	}
	if err := mergeScholarship(s, in); err != nil {
		return nil, err
	}
	return s, nil
}

func mergeScholarship(s *domain.Scholarship, in *ScholarshipInput) error {
	setStr(&s.Title, in.Title)
	setStr(&s.Description, in.Description)
	setStr(&s.Provider, in.Provider)
	setStr(&s.Currency, in.Currency)
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return apperr.Validation("amount must be positive")
		}
		s.Amount = *in.Amount
	}
	if in.Deadline != nil {
		s.Deadline = in.Deadline.UTC()
	}
	if in.Category != "" {
		if !in.Category.Valid() {
			return apperr.Validation("invalid scholarship category")
		}
		s.Category = in.Category
	}
	if in.Eligibility != nil {
		s.Eligibility = cleanList(in.Eligibility)
	}
	if in.Link != nil {
		s.Link = *in.Link
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return nil
}
