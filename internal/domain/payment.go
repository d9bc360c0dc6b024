package domain

import (
	"context"
	"time"
)

type PaymentSource string

const (
	SourceCheckout PaymentSource = "checkout"
	SourceCapture  PaymentSource = "capture"
	SourceWebhook  PaymentSource = "webhook"
)

// Payment 支付台账：一笔 provider 订单一行，order_id 唯一，是幂等锚点
type Payment struct {
	ID                string        `gorm:"primaryKey;size:36" json:"id"`
	UserID            string        `gorm:"size:36;index;not null" json:"userId"`
	OrderID           string        `gorm:"size:64;uniqueIndex;not null" json:"orderId"`
	ProviderPaymentID string        `gorm:"size:64" json:"paymentId,omitempty"`
	Method            string        `gorm:"size:16;not null;default:paypal" json:"paymentMethod"`
	Amount            string        `gorm:"size:32" json:"amount"`
	Currency          string        `gorm:"size:8" json:"currency"`
	Status            PaymentStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Source            PaymentSource `gorm:"size:16;not null" json:"source"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }

// Completion 一次已确认的收款
type Completion struct {
	UserID            string
	OrderID           string
	ProviderPaymentID string
	Amount            string
	Currency          string
	Source            PaymentSource
	At                time.Time
}

type PaymentRepository interface {
	// CreatePending 下单时记录；同一 order_id 已存在时忽略
	CreatePending(ctx context.Context, p *Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)
	// Complete 同一事务内置台账为 completed 并回写用户；applied=false 表示此前已完成
	Complete(ctx context.Context, c Completion) (applied bool, err error)
	CountCompleted(ctx context.Context) (int64, error)
}
