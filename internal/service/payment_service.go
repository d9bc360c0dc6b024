package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
	"success-sprout/internal/payment/paypal"
)

const (
	WebhookVerify = "verify"
	WebhookTrust  = "trust"
)

var (
	amountPattern = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)
	// PayPal 订单号只含字母数字与连字符；其余字符一律拒绝，不带入 provider 请求路径
	orderIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)
)

func checkOrderID(orderID, field string) error {
	if orderID == "" {
		return apperr.Validation(field + " required")
	}
	if !orderIDPattern.MatchString(orderID) {
		return apperr.Validation("invalid " + field)
	}
	return nil
}

type PaymentOptions struct {
	WebhookMode     string
	DefaultAmount   string
	DefaultCurrency string
}

type CreateOrderInput struct {
	UserID   string `json:"userId" binding:"required"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type WebhookInput struct {
	UserID    string `json:"userId"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderID"`
}

type CaptureResult struct {
	OrderID string `json:"orderID"`
	UserID  string `json:"userId"`
	Applied bool   `json:"applied"`
}

// PaymentService 下单与收款对账；pending -> completed 每个订单只生效一次
type PaymentService struct {
	gw    paypal.Gateway
	pays  domain.PaymentRepository
	users domain.UserRepository
	opts  PaymentOptions
	log   *zap.Logger
	now   func() time.Time
}

func NewPaymentService(gw paypal.Gateway, pays domain.PaymentRepository, users domain.UserRepository, opts PaymentOptions, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.WebhookMode == "" {
		opts.WebhookMode = WebhookVerify
	}
	if opts.DefaultAmount == "" {
		opts.DefaultAmount = "1.00"
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "INR"
	}
	return &PaymentService{gw: gw, pays: pays, users: users, opts: opts, log: log.Named("payment"), now: time.Now}
}

func (s *PaymentService) TrustsWebhook() bool { return s.opts.WebhookMode == WebhookTrust }

func (s *PaymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*paypal.Order, error) {
	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return nil, apperr.Validation("userId required")
	}
	amount := strings.TrimSpace(in.Amount)
	if amount == "" {
		amount = s.opts.DefaultAmount
	}
	if !amountPattern.MatchString(amount) {
		return nil, apperr.Validation("amount must be a decimal with at most two fraction digits")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, apperr.Validation("currency must be a 3-letter code")
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	o, err := s.gw.CreateOrder(ctx, uid, amount, currency)
	if err != nil {
		s.log.Warn("create order failed", zap.String("user_id", uid), zap.Error(err))
		return nil, err
	}
	if err := s.pays.CreatePending(ctx, &domain.Payment{
		UserID:   uid,
		OrderID:  o.ID,
		Amount:   amount,
		Currency: currency,
		Source:   domain.SourceCheckout,
	}); err != nil {
		// 台账缺行不影响后续对账，Complete 会补建
		s.log.Warn("record pending payment failed", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.log.Info("order created", zap.String("order_id", o.ID), zap.String("user_id", uid))
	return o, nil
}

// Capture 处理 provider 回跳；台账已完成时不再调用 provider
func (s *PaymentService) Capture(ctx context.Context, orderID string) (*CaptureResult, error) {
	const source = string(domain.SourceCapture)
	orderID = strings.TrimSpace(orderID)
	if err := checkOrderID(orderID, "order token"); err != nil {
		return nil, err
	}
	if p, err := s.pays.FindByOrderID(ctx, orderID); err != nil {
		return nil, err
	} else if p != nil && p.Status == domain.PaymentCompleted {
		paymentEvents.WithLabelValues(source, outcomeDuplicate).Inc()
		return &CaptureResult{OrderID: orderID, UserID: p.UserID}, nil
	}

	d, err := s.gw.CaptureOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrMissingReference) {
			s.log.Error("captured order has no custom reference", zap.String("order_id", orderID))
			paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
		} else {
			paymentEvents.WithLabelValues(source, outcomeFailed).Inc()
		}
		return nil, err
	}
	if !d.Completed() {
		paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
		return nil, apperr.Validation("payment not completed: " + d.Status)
	}
	return s.complete(ctx, domain.Completion{
		UserID:            d.SubjectID,
		OrderID:           orderID,
		ProviderPaymentID: d.ProviderPaymentID,
		Amount:            d.Amount,
		Currency:          d.Currency,
		Source:            domain.SourceCapture,
	})
}

// HandleWebhook verify 模式向 provider 核实订单归属；trust 模式直接采信
func (s *PaymentService) HandleWebhook(ctx context.Context, in WebhookInput) (*CaptureResult, error) {
	const source = string(domain.SourceWebhook)
	uid := strings.TrimSpace(in.UserID)
	orderID := strings.TrimSpace(in.OrderID)
	if uid == "" {
		return nil, apperr.Validation("userId required")
	}
	if err := checkOrderID(orderID, "orderID"); err != nil {
		return nil, err
	}
	c := domain.Completion{
		UserID:            uid,
		OrderID:           orderID,
		ProviderPaymentID: strings.TrimSpace(in.PaymentID),
		Source:            domain.SourceWebhook,
	}

	if s.TrustsWebhook() {
		s.log.Warn("applying unverified payment webhook", zap.String("order_id", orderID), zap.String("user_id", uid))
		if p, err := s.pays.FindByOrderID(ctx, orderID); err != nil {
			return nil, err
		} else if p != nil {
			c.Amount, c.Currency = p.Amount, p.Currency
		}
		return s.complete(ctx, c)
	}

	d, err := s.gw.GetOrder(ctx, orderID)
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrMissingReference):
		paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
		s.log.Warn("webhook order not verifiable", zap.String("order_id", orderID), zap.Error(err))
		return nil, apperr.Forbidden("order could not be verified")
	case err != nil:
		paymentEvents.WithLabelValues(source, outcomeFailed).Inc()
		return nil, err
	}
	if !d.Completed() || d.SubjectID != uid {
		paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
		s.log.Warn("webhook rejected", zap.String("order_id", orderID), zap.String("user_id", uid), zap.String("status", d.Status))
		return nil, apperr.Forbidden("order does not confirm this payment")
	}
	c.Amount, c.Currency = d.Amount, d.Currency
	if d.ProviderPaymentID != "" {
		c.ProviderPaymentID = d.ProviderPaymentID
	}
	return s.complete(ctx, c)
}

func (s *PaymentService) complete(ctx context.Context, c domain.Completion) (*CaptureResult, error) {
	source := string(c.Source)
	c.At = s.now().UTC()
	applied, err := s.pays.Complete(ctx, c)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			s.log.Error("payment subject unknown", zap.String("order_id", c.OrderID), zap.String("user_id", c.UserID))
			paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
			return nil, apperr.Validation("payment reference does not match a known account")
		case apperr.KindForbidden:
			s.log.Error("payment subject mismatch", zap.String("order_id", c.OrderID), zap.String("user_id", c.UserID))
			paymentEvents.WithLabelValues(source, outcomeRejected).Inc()
			return nil, err
		}
		paymentEvents.WithLabelValues(source, outcomeFailed).Inc()
		return nil, err
	}
	if applied {
		paymentEvents.WithLabelValues(source, outcomeApplied).Inc()
		s.log.Info("payment completed", zap.String("order_id", c.OrderID), zap.String("user_id", c.UserID), zap.String("source", source))
	} else {
		paymentEvents.WithLabelValues(source, outcomeDuplicate).Inc()
	}
	return &CaptureResult{OrderID: c.OrderID, UserID: c.UserID, Applied: applied}, nil
}
