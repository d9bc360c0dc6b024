package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
	"success-sprout/pkg/utils"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) CreatePending(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	p.Status = domain.PaymentPending
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("record pending payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).First(&p, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

// Complete pending -> completed 只发生一次：台账行按 order_id 唯一，
// 状态更新带 status <> 'completed' 条件，失败方 RowsAffected 为 0
func (r *PaymentRepo) Complete(ctx context.Context, c domain.Completion) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.Select("id").First(&u, "id = ?", c.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment subject not found")
			}
			return fmt.Errorf("load payment subject: %w", err)
		}

		row := domain.Payment{
			ID:       utils.NewID(),
			UserID:   c.UserID,
			OrderID:  c.OrderID,
			Method:   "paypal",
			Amount:   c.Amount,
			Currency: c.Currency,
			Status:   domain.PaymentPending,
			Source:   c.Source,
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
			Create(&row).Error; err != nil {
			return fmt.Errorf("ensure payment row: %w", err)
		}
		var cur domain.Payment
		if err := tx.First(&cur, "order_id = ?", c.OrderID).Error; err != nil {
			return fmt.Errorf("load payment row: %w", err)
		}
		if cur.UserID != c.UserID {
			return apperr.Forbidden("order belongs to another account")
		}
		if cur.Status == domain.PaymentCompleted {
			return nil
		}

		at := c.At
		res := tx.Model(&domain.Payment{}).
			Where("order_id = ? AND status <> ?", c.OrderID, domain.PaymentCompleted).
			Updates(map[string]any{
				"status":              domain.PaymentCompleted,
				"provider_payment_id": c.ProviderPaymentID,
				"amount":              c.Amount,
				"currency":            c.Currency,
				"source":              c.Source,
				"completed_at":        &at,
			})
		if res.Error != nil {
			return fmt.Errorf("complete payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&domain.User{}).Where("id = ?", c.UserID).Updates(map[string]any{
			"payment_status":              domain.PaymentCompleted,
			"active":                      true,
			"payment_order_id":            c.OrderID,
			"payment_amount":              c.Amount,
			"payment_currency":            c.Currency,
			"payment_provider_payment_id": c.ProviderPaymentID,
			"payment_captured_at":         &at,
		}).Error; err != nil {
			return fmt.Errorf("activate user: %w", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *PaymentRepo) CountCompleted(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", domain.PaymentCompleted).Count(&n).Error
	return n, err
}
