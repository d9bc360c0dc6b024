package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// PaymentDetail 最近一次完成的支付（列前缀 payment_）
type PaymentDetail struct {
	OrderID           string     `gorm:"size:64" json:"orderId,omitempty"`
	Amount            string     `gorm:"size:32" json:"amount,omitempty"`
	Currency          string     `gorm:"size:8" json:"currency,omitempty"`
	ProviderPaymentID string     `gorm:"size:64" json:"paymentId,omitempty"`
	CapturedAt        *time.Time `json:"paymentDate,omitempty"`
}

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	Name         string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         Role   `gorm:"size:16;not null;default:student"`

	Phone        string   `gorm:"size:32"`
	ProfileImage string   `gorm:"size:512"`
	Bio          string   `gorm:"type:text"`
	Skills       []string `gorm:"serializer:json"`
	Experience   string   `gorm:"size:255"`
	Education    string   `gorm:"size:255"`
	ResumeKey    string   `gorm:"size:255"`

	IsVerified           bool
	VerificationToken    string `gorm:"size:128"`
	ResetPasswordToken   string `gorm:"size:128"`
	ResetPasswordExpires *time.Time

	Active        bool
	PaymentStatus PaymentStatus `gorm:"size:16;not null;default:pending"`
	Payment       PaymentDetail `gorm:"embedded;embeddedPrefix:payment_"`

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail 邮箱统一小写去空白，唯一性基于归一化后的值
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// PublicUser 对外投影：不含密码哈希、验证/重置令牌
type PublicUser struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Role          Role           `json:"role"`
	Phone         string         `json:"phone,omitempty"`
	ProfileImage  string         `json:"profileImage,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Skills        []string       `json:"skills"`
	Experience    string         `json:"experience,omitempty"`
	Education     string         `json:"education,omitempty"`
	HasResume     bool           `json:"hasResume"`
	IsVerified    bool           `json:"isVerified"`
	Active        bool           `json:"active"`
	PaymentStatus PaymentStatus  `json:"paymentStatus"`
	PaymentDetail *PaymentDetail `json:"paymentDetails,omitempty"`
	LastLoginAt   *time.Time     `json:"lastLogin,omitempty"`
	Banned        bool           `json:"banned,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	p := PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Phone:         u.Phone,
		ProfileImage:  u.ProfileImage,
		Bio:           u.Bio,
		Skills:        u.Skills,
		Experience:    u.Experience,
		Education:     u.Education,
		HasResume:     u.ResumeKey != "",
		IsVerified:    u.IsVerified,
		Active:        u.Active,
		PaymentStatus: u.PaymentStatus,
		LastLoginAt:   u.LastLoginAt,
		Banned:        u.DeletedAt.Valid,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if u.Payment.OrderID != "" {
		d := u.Payment
		p.PaymentDetail = &d
	}
	return p
}

// ProfilePatch PUT /auth/profile 的可选字段；nil 表示不修改
type ProfilePatch struct {
	Name         *string
	Phone        *string
	ProfileImage *string
	Bio          *string
	Skills       *[]string
	Experience   *string
	Education    *string
}

type UserFilter struct {
	Q           string
	Role        Role
	WithDeleted bool
}

// UserRepository 约定：FindXxx 未命中返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, p ProfilePatch) (*User, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
	SetResumeKey(ctx context.Context, id, key string) error
	SetRole(ctx context.Context, id string, role Role) (bool, error)
	List(ctx context.Context, f UserFilter, offset, limit int) ([]User, int64, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
