package service

import (
	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

type CourseInput struct {
	Title         string                `json:"title" binding:"omitempty,max=200"`
	Description   string                `json:"description"`
	Category      string                `json:"category" binding:"omitempty,max=64"`
	Instructor    string                `json:"instructor" binding:"omitempty,max=128"`
	Image         *string               `json:"image" binding:"omitempty,max=512"`
	Duration      string                `json:"duration" binding:"omitempty,max=64"`
	Level         domain.CourseLevel    `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Price         *float64              `json:"price" binding:"omitempty,min=0"`
	Currency      string                `json:"currency" binding:"omitempty,len=3"`
	Rating        *float64              `json:"rating" binding:"omitempty,min=0,max=5"`
	Modules       []domain.CourseModule `json:"modules"`
	Skills        []string              `json:"skills"`
	Prerequisites []string              `json:"prerequisites"`
	IsPublished   *bool                 `json:"isPublished"`
}

type CourseService = CatalogService[domain.Course, CourseInput]

func NewCourseService(repo domain.CatalogRepository[domain.Course], log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{name: "course", repo: repo, build: buildCourse, merge: mergeCourse, log: log}
}

func buildCourse(id, owner string, in *CourseInput) (*domain.Course, error) {
	if err := requireFields(
		field{"title", in.Title},
		field{"description", in.Description},
		field{"category", in.Category},
		field{"instructor", in.Instructor},
		field{"duration", in.Duration},
	); err != nil {
		return nil, err
	}
	c := &domain.Course{
		ID:            id,
		Level:         domain.LevelBeginner,
		Currency:      "USD",
		Modules:       []domain.CourseModule{},
		Skills:        []string{},
		Prerequisites: []string{},
		CreatedBy:     owner,
	}
	if err := mergeCourse(c, in); err != nil {
		return nil, err
	}
	return c, nil
}

func mergeCourse(c *domain.Course, in *CourseInput) error {
	setStr(&c.Title, in.Title)
	setStr(&c.Description, in.Description)
	setStr(&c.Category, in.Category)
	setStr(&c.Instructor, in.Instructor)
	setStr(&c.Duration, in.Duration)
	setStr(&c.Currency, in.Currency)
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Level != "" {
		if !in.Level.Valid() {
			return apperr.Validation("level must be beginner, intermediate or advanced")
		}
		c.Level = in.Level
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return apperr.Validation("price cannot be negative")
		}
		c.Price = *in.Price
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > 5 {
			return apperr.Validation("rating must be between 0 and 5")
		}
		c.Rating = *in.Rating
	}
	if in.Modules != nil {
		c.Modules = in.Modules
	}
	if in.Skills != nil {
		c.Skills = cleanList(in.Skills)
	}
	if in.Prerequisites != nil {
		c.Prerequisites = cleanList(in.Prerequisites)
	}
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
	return nil
}
