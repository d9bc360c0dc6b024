package domain

import "time"

type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobContract   JobType = "contract"
	JobRemote     JobType = "remote"
	JobInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobFullTime, JobPartTime, JobContract, JobRemote, JobInternship:
		return true
	}
	return false
}

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
	JobFilled JobStatus = "filled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobOpen, JobClosed, JobFilled:
		return true
	}
	return false
}

type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `gorm:"size:8" json:"currency"`
}

type Job struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	Company          string     `gorm:"size:128;not null" json:"company"`
	RecruiterID      string     `gorm:"size:36;index;not null" json:"recruiter"`
	Location         string     `gorm:"size:128;not null" json:"location"`
	JobType          JobType    `gorm:"size:16;index;not null" json:"jobType"`
	Salary           Salary     `gorm:"embedded;embeddedPrefix:salary_" json:"salary"`
	Requirements     []string   `gorm:"serializer:json" json:"requirements"`
	Responsibilities []string   `gorm:"serializer:json" json:"responsibilities"`
	Skills           []string   `gorm:"serializer:json" json:"skills"`
	Experience       string     `gorm:"size:128" json:"experience,omitempty"`
	Status           JobStatus  `gorm:"size:16;not null;default:open" json:"status"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }
func (j Job) Owner() string { return j.RecruiterID }

type JobApplication struct {
	ID        uint              `gorm:"primaryKey"`
	JobID     string            `gorm:"size:36;not null;uniqueIndex:uk_jobapp_job_student"`
	StudentID string            `gorm:"size:36;not null;uniqueIndex:uk_jobapp_job_student;index"`
	Status    ApplicationStatus `gorm:"size:16;not null;default:applied"`
	CreatedAt time.Time
}

func (JobApplication) TableName() string { return "job_applications" }
