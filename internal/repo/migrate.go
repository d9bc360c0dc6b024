package repo

import (
	"gorm.io/gorm"

	"success-sprout/internal/domain"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.CourseEnrollment{},
		&domain.Job{},
		&domain.JobApplication{},
		&domain.Scholarship{},
		&domain.ScholarshipApplication{},
		&domain.Payment{},
	)
}
