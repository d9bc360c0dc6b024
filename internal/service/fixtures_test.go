package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"success-sprout/internal/domain"
	"success-sprout/internal/repo"
	"success-sprout/internal/repo/repotest"
	"success-sprout/pkg/utils"
)

type env struct {
	db           *gorm.DB
	users        *repo.UserRepo
	courses      *repo.CatalogRepo[domain.Course]
	jobs         *repo.JobRepo
	scholarships *repo.CatalogRepo[domain.Scholarship]
	pays         *repo.PaymentRepo
}

func newEnv(t *testing.T) *env {
	db := repotest.Open(t)
	return &env{
		db:           db,
		users:        repo.NewUserRepo(db),
		courses:      repo.NewCourseRepo(db),
		jobs:         repo.NewJobRepo(db),
		scholarships: repo.NewScholarshipRepo(db),
		pays:         repo.NewPaymentRepo(db),
	}
}

func (e *env) user(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	id := utils.NewID()
	u := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         string(role) + " " + id[:8],
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}
