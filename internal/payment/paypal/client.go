package paypal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/cache"
)

const (
	DefaultTimeout = 10 * time.Second
	tokenCacheKey  = "paypal:token"
)

type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	BrandName    string
	Description  string
	ReturnURL    string
	CancelURL    string

	// TokenCache 为 nil 时只用进程内 token 复用
	TokenCache    *cache.Cache
	TokenCacheTTL time.Duration
}

// Client PayPal Orders v2 适配器
type Client struct {
	opts Options
	http *resty.Client
	ts   oauth2.TokenSource
	log  *zap.Logger
}

var _ Gateway = (*Client)(nil)

func New(o Options, log *zap.Logger) *Client {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.TokenCacheTTL <= 0 {
		o.TokenCacheTTL = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(o.BaseURL, "/")
	c := &Client{
		opts: o,
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(o.Timeout).
			SetHeader("Accept", "application/json"),
		log: log.Named("paypal"),
	}
	if o.ClientID != "" && o.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			TokenURL:     base + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: o.Timeout})
		c.ts = cc.TokenSource(tokenCtx)
	}
	return c
}

func (c *Client) Configured() bool { return c.ts != nil }

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.ts == nil {
		return "", apperr.GatewayUnavailable("payment provider credentials not configured", nil)
	}
	load := func(context.Context) (*oauth2.Token, error) { return c.ts.Token() }
	tok, err := cache.GetOrLoadJSON[oauth2.Token](c.opts.TokenCache, ctx, tokenCacheKey, c.opts.TokenCacheTTL, load)
	if err == nil && tok != nil && !tok.Valid() {
		_ = c.opts.TokenCache.Delete(ctx, tokenCacheKey)
		tok, err = load(ctx)
	}
	if err != nil {
		return "", apperr.GatewayUnavailable("payment provider authentication failed", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", apperr.GatewayUnavailable("payment provider returned empty token", nil)
	}
	return tok.AccessToken, nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	tok, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().SetContext(ctx).SetAuthToken(tok), nil
}

func (c *Client) CreateOrder(ctx context.Context, subjectID, amount, currency string) (*Order, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnitRequest{{
			ReferenceID: subjectID,
			CustomID:    subjectID,
			Description: c.opts.Description,
			Amount:      money{CurrencyCode: currency, Value: amount},
		}},
		ApplicationContext: applicationContext{
			BrandName:  c.opts.BrandName,
			ReturnURL:  c.opts.ReturnURL,
			CancelURL:  c.opts.CancelURL,
			UserAction: "PAY_NOW",
			Shipping:   "NO_SHIPPING",
		},
	}
	var out orderResponse
	var perr errorResponse
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		SetError(&perr).
		Post("/v2/checkout/orders")
	if err != nil {
		return nil, apperr.GatewayUnavailable("create order failed", err)
	}
	if resp.IsError() {
		c.log.Warn("create order rejected", zap.Int("status", resp.StatusCode()), zap.String("name", perr.Name), zap.String("message", perr.Message))
		return nil, apperr.GatewayUnavailable("create order failed", providerError(resp, &perr))
	}
	approve := out.approveURL()
	if out.ID == "" || approve == "" {
		return nil, apperr.GatewayUnavailable("create order returned no approval link", nil)
	}
	return &Order{ID: out.ID, Status: out.Status, ApproveURL: approve}, nil
}

// CaptureOrder 已被捕获的订单按查询结果返回，保证重放安全
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out orderResponse
	var perr errorResponse
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetHeader("PayPal-Request-Id", "capture-"+orderID).
		SetBody(struct{}{}).
		SetResult(&out).
		SetError(&perr).
		SetPathParam("id", orderID).
		Post("/v2/checkout/orders/{id}/capture")
	if err != nil {
		return nil, apperr.GatewayUnavailable("capture order failed", err)
	}
	if resp.StatusCode() == http.StatusUnprocessableEntity && perr.hasIssue("ORDER_ALREADY_CAPTURED") {
		c.log.Info("order already captured", zap.String("order_id", orderID))
		return c.GetOrder(ctx, orderID)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, apperr.NotFound("order not found")
	}
	if resp.IsError() {
		c.log.Warn("capture rejected", zap.String("order_id", orderID), zap.Int("status", resp.StatusCode()), zap.String("name", perr.Name))
		return nil, apperr.GatewayUnavailable("capture order failed", providerError(resp, &perr))
	}
	return withReference(out.detail())
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out orderResponse
	var perr errorResponse
	// {id} 经 PathEscape，订单号无法改写请求路径
	resp, err := req.SetResult(&out).SetError(&perr).SetPathParam("id", orderID).Get("/v2/checkout/orders/{id}")
	if err != nil {
		return nil, apperr.GatewayUnavailable("get order failed", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, apperr.NotFound("order not found")
	}
	if resp.IsError() {
		return nil, apperr.GatewayUnavailable("get order failed", providerError(resp, &perr))
	}
	return withReference(out.detail())
}

func withReference(d *OrderDetail) (*OrderDetail, error) {
	if d.SubjectID == "" {
		return d, apperr.MissingReference("order " + d.OrderID + " carries no custom reference")
	}
	return d, nil
}

var errProvider = errors.New("paypal error")

func providerError(resp *resty.Response, perr *errorResponse) error {
	msg := perr.Message
	if msg == "" {
		msg = strings.TrimSpace(string(resp.Body()))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d %s: %s", errProvider, resp.StatusCode(), perr.Name, msg)
}
