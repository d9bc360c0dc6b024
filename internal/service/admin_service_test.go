package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/cache"
	"success-sprout/internal/domain"
)

func newAdmin(t *testing.T, c *cache.Cache) (*AdminService, *env) {
	e := newEnv(t)
	return NewAdminService(e.users, e.courses, e.jobs, e.scholarships, e.pays, c, time.Minute, nil), e
}

func TestAdmin_DashboardCached(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	svc, e := newAdmin(t, rc)
	admin := e.user(t, domain.RoleAdmin)
	e.user(t, domain.RoleStudent)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Users)
	assert.True(t, mr.Exists("sprout:"+dashboardKey))

	victim := e.user(t, domain.RoleStudent)
	d, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Users, "served from cache")

	require.NoError(t, svc.Ban(ctx, admin, victim.ID))
	assert.False(t, mr.Exists("sprout:"+dashboardKey))
	d, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Users)
}

func TestAdmin_DashboardWithoutRedis(t *testing.T) {
	svc, e := newAdmin(t, nil)
	e.user(t, domain.RoleRecruiter)
	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Users)
	assert.Zero(t, d.CompletedPayments)
}

func TestAdmin_UserManagement(t *testing.T) {
	ctx := context.Background()
	svc, e := newAdmin(t, nil)
	admin := e.user(t, domain.RoleAdmin)
	stu := e.user(t, domain.RoleStudent)
	e.user(t, domain.RoleRecruiter)

	page, err := svc.ListUsers(ctx, UserListQuery{Role: domain.RoleStudent})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, stu.ID, page.Items[0].ID)

	p, err := svc.SetRole(ctx, admin, stu.ID, domain.RoleRecruiter)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruiter, p.Role)

	_, err = svc.SetRole(ctx, admin, admin.ID, domain.RoleStudent)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.SetRole(ctx, admin, "ghost", domain.RoleStudent)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.SetRole(ctx, admin, stu.ID, "root")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.ErrorIs(t, svc.Ban(ctx, admin, admin.ID), apperr.ErrValidation)
	require.NoError(t, svc.Ban(ctx, admin, stu.ID))
	assert.ErrorIs(t, svc.Ban(ctx, admin, stu.ID), apperr.ErrNotFound)

	page, err = svc.ListUsers(ctx, UserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)
	page, err = svc.ListUsers(ctx, UserListQuery{IncludeBanned: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Pagination.Total)
}
