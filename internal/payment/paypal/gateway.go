package paypal

import "context"

//go:generate mockgen -source=gateway.go -destination=../../mock/paypal_gateway_mock.go -package=mock

// Order 新建订单，买家跳转 ApproveURL 完成授权
type Order struct {
	ID         string `json:"orderID"`
	Status     string `json:"status"`
	ApproveURL string `json:"approveUrl"`
}

// OrderDetail 订单及其收款结果；SubjectID 取自 custom_id
type OrderDetail struct {
	OrderID           string
	Status            string
	SubjectID         string
	Amount            string
	Currency          string
	ProviderPaymentID string
}

func (d *OrderDetail) Completed() bool { return d != nil && d.Status == StatusCompleted }

const StatusCompleted = "COMPLETED"

type Gateway interface {
	CreateOrder(ctx context.Context, subjectID, amount, currency string) (*Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*OrderDetail, error)
	GetOrder(ctx context.Context, orderID string) (*OrderDetail, error)
}
