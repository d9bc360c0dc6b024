package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return apperr.AlreadyExists("email already registered")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfilePatch) (*domain.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	var cols []string
	set := func(col string, dst *string, v *string) {
		if v != nil {
			*dst = *v
			cols = append(cols, col)
		}
	}
	set("name", &u.Name, p.Name)
	set("phone", &u.Phone, p.Phone)
	set("profile_image", &u.ProfileImage, p.ProfileImage)
	set("bio", &u.Bio, p.Bio)
	set("experience", &u.Experience, p.Experience)
	set("education", &u.Education, p.Education)
	if p.Skills != nil {
		u.Skills = *p.Skills
		cols = append(cols, "skills")
	}
	if len(cols) == 0 {
		return u, nil
	}
	if err := r.db.WithContext(ctx).Model(u).Select(cols).Updates(u).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

func (r *UserRepo) SetResumeKey(ctx context.Context, id, key string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("resume_key", key)
	if res.Error != nil {
		return fmt.Errorf("set resume key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *UserRepo) SetRole(ctx context.Context, id string, role domain.Role) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return false, fmt.Errorf("set role: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if f.WithDeleted {
		tx = tx.Unscoped()
	}
	if f.Role != "" {
		tx = tx.Where("role = ?", f.Role)
	}
	tx = whereContains(tx, f.Q, "name", "email")
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}
