package domain

import "time"

type ScholarshipCategory string

const (
	ScholarshipMerit     ScholarshipCategory = "merit-based"
	ScholarshipNeed      ScholarshipCategory = "need-based"
	ScholarshipDiversity ScholarshipCategory = "diversity"
	ScholarshipField     ScholarshipCategory = "field-specific"
)

func (c ScholarshipCategory) Valid() bool {
	switch c {
	case ScholarshipMerit, ScholarshipNeed, ScholarshipDiversity, ScholarshipField:
		return true
	}
	return false
}

type Scholarship struct {
	ID               string              `gorm:"primaryKey;size:36" json:"id"`
	Title            string              `gorm:"size:200;not null" json:"title"`
	Description      string              `gorm:"type:text;not null" json:"description"`
	Amount           float64             `gorm:"not null" json:"amount"`
	Currency         string              `gorm:"size:8;not null;default:USD" json:"currency"`
	Provider         string              `gorm:"size:128;not null" json:"provider"`
	Eligibility      []string            `gorm:"serializer:json" json:"eligibility"`
	Deadline         time.Time           `gorm:"not null" json:"deadline"`
	Link             string              `gorm:"size:512" json:"link,omitempty"`
	Category         ScholarshipCategory `gorm:"size:32;index;not null;default:merit-based" json:"category"`
	ApplicationCount int64               `gorm:"not null;default:0" json:"applicationCount"`
	IsActive         bool                `json:"isActive"`
	CreatedBy        string              `gorm:"size:36;index" json:"createdBy"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func (Scholarship) TableName() string { return "scholarships" }
func (s Scholarship) Owner() string { return s.CreatedBy }

type ScholarshipApplication struct {
	ID            uint              `gorm:"primaryKey"`
	ScholarshipID string            `gorm:"size:36;not null;uniqueIndex:uk_schapp_scholarship_student"`
	StudentID     string            `gorm:"size:36;not null;uniqueIndex:uk_schapp_scholarship_student;index"`
	Status        ApplicationStatus `gorm:"size:16;not null;default:applied"`
	CreatedAt     time.Time
}

func (ScholarshipApplication) TableName() string { return "scholarship_applications" }
