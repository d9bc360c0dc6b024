package domain

import "time"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type CourseVideo struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
}

type CourseModule struct {
	Title  string        `json:"title"`
	Videos []CourseVideo `json:"videos"`
}

type Course struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Category      string         `gorm:"size:64;index;not null" json:"category"`
	Instructor    string         `gorm:"size:128;not null" json:"instructor"`
	Image         string         `gorm:"size:512" json:"image,omitempty"`
	Duration      string         `gorm:"size:64;not null" json:"duration"`
	Level         CourseLevel    `gorm:"size:16;index;not null;default:beginner" json:"level"`
	Price         float64        `json:"price"`
	Currency      string         `gorm:"size:8;not null;default:USD" json:"currency"`
	Rating        float64        `json:"rating"`
	Modules       []CourseModule `gorm:"serializer:json" json:"modules"`
	Skills        []string       `gorm:"serializer:json" json:"skills"`
	Prerequisites []string       `gorm:"serializer:json" json:"prerequisites"`
	IsPublished   bool           `json:"isPublished"`
	CreatedBy     string         `gorm:"size:36;index" json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }
func (c Course) Owner() string { return c.CreatedBy }

// CourseEnrollment (course_id, student_id) 唯一，保证重复报名被拒
type CourseEnrollment struct {
	ID        uint      `gorm:"primaryKey"`
	CourseID  string    `gorm:"size:36;not null;uniqueIndex:uk_enroll_course_student"`
	StudentID string    `gorm:"size:36;not null;uniqueIndex:uk_enroll_course_student;index"`
	CreatedAt time.Time
}

func (CourseEnrollment) TableName() string { return "course_enrollments" }
