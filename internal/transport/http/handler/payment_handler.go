package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/payment/paypal"
	"success-sprout/internal/service"
	httpez "success-sprout/internal/transport/http/ez"
	resp "success-sprout/internal/transport/http/response"
)

type WebhookResult struct {
	Message string `json:"message"`
	*service.CaptureResult
}

// PaymentHandler PayPal 下单、回跳收款、webhook
type PaymentHandler struct {
	svc        *service.PaymentService
	successURL string
}

func NewPaymentHandler(svc *service.PaymentService, successURL string) *PaymentHandler {
	if successURL == "" {
		successURL = "/payment-success.html"
	}
	return &PaymentHandler{svc: svc, successURL: successURL}
}

func (h *PaymentHandler) Priority() int { return 30 }

func (h *PaymentHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)
	httpez.RegisterAction(ez, httpez.Action[service.CreateOrderInput, *paypal.Order]{
		Method: http.MethodPost, Path: "/create-paypal-order", Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.CreateOrderInput) (*paypal.Order, error) {
			return h.svc.CreateOrder(c.Request.Context(), *in)
		},
	})
	httpez.RegisterAction(ez, httpez.Action[service.WebhookInput, WebhookResult]{
		Method: http.MethodPost, Path: "/payment-webhook", Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.WebhookInput) (WebhookResult, error) {
			r, err := h.svc.HandleWebhook(c.Request.Context(), *in)
			if err != nil {
				return WebhookResult{}, err
			}
			return WebhookResult{Message: "Payment status updated", CaptureResult: r}, nil
		},
	})
	api.GET("/capture-paypal-order", h.capture)
}

// capture PayPal 回跳 ?token=<orderId>，成功后 302 到成功页
func (h *PaymentHandler) capture(c *gin.Context) {
	r, err := h.svc.Capture(c.Request.Context(), c.Query("token"))
	if err != nil {
		resp.Abort(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.redirectURL(r.OrderID))
}

func (h *PaymentHandler) redirectURL(orderID string) string {
	u, err := url.Parse(h.successURL)
	if err != nil {
		return h.successURL
	}
	q := u.Query()
	q.Set("orderID", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}
