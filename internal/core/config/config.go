package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret 仅供本地开发；非 local/dev/test 环境下缺失 jwt.secret 视为配置错误
const DevJWTSecret = "dev-only-insecure-secret"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name          string
	Env           string
	PublicBaseURL string `mapstructure:"publicBaseURL"`
	HTTP          HTTP
	Admin         AdminHTTP
}

type FileLog struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileLog
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type CORS struct {
	AllowOrigins   []string
	AllowLocalhost bool
	AllowAll       bool
}

type PayPal struct {
	Mode            string // sandbox / live
	ClientID        string `mapstructure:"clientId"`
	ClientSecret    string
	TimeoutSec      int
	TokenCacheSec   int
	BrandName       string
	Description     string
	ReturnURL       string `mapstructure:"returnURL"`
	CancelURL       string `mapstructure:"cancelURL"`
	SuccessURL      string `mapstructure:"successURL"`
	DefaultCurrency string
	DefaultAmount   string
}

func (p PayPal) BaseURL() string {
	if strings.EqualFold(p.Mode, "sandbox") {
		return "https://api-m.sandbox.paypal.com"
	}
	return "https://api-m.paypal.com"
}

type Payment struct {
	WebhookMode string // verify / trust
}

type S3 struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PresignTTLMin int
}

type Storage struct {
	S3 S3 `mapstructure:"s3"`
}

type AdminSeed struct {
	SeedEmail    string
	SeedPassword string
	SeedName     string
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	CORS    CORS  `mapstructure:"cors"`
	PayPal  PayPal
	Payment Payment
	Storage Storage
	Admin   AdminSeed
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// Read 读取 yaml 并叠加 APP_ 前缀环境变量（APP_JWT_SECRET → jwt.secret）
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "success-sprout")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 40)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.port", 3001)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "success-sprout")
	v.SetDefault("jwt.accessTokenTTLMin", 7*24*60)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("cors.allowLocalhost", true)
	v.SetDefault("paypal.mode", "sandbox")
	v.SetDefault("paypal.timeoutSec", 10)
	v.SetDefault("paypal.tokenCacheSec", 300)
	v.SetDefault("paypal.description", "Success Sprout Membership")
	v.SetDefault("paypal.successURL", "/payment-success.html")
	v.SetDefault("paypal.defaultCurrency", "INR")
	v.SetDefault("paypal.defaultAmount", "1.00")
	v.SetDefault("payment.webhookMode", "verify")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.presignTTLMin", 15)
}

// IsDevelopment local / dev / test 环境
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.App.Env) {
	case "local", "dev", "development", "test":
		return true
	}
	return false
}

// Validate 启动期校验；开发环境缺省 jwt.secret 时回落到 DevJWTSecret
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		if c.IsDevelopment() {
			c.JWT.Secret = DevJWTSecret
		} else {
			errs = append(errs, errors.New("jwt.secret is required outside development (set APP_JWT_SECRET)"))
		}
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		errs = append(errs, errors.New("jwt.accessTokenTTLMin must be positive"))
	}
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("db.driver %q not supported", c.DB.Driver))
	}
	switch strings.ToLower(c.PayPal.Mode) {
	case "sandbox", "live":
	default:
		errs = append(errs, fmt.Errorf("paypal.mode %q must be sandbox or live", c.PayPal.Mode))
	}
	switch strings.ToLower(c.Payment.WebhookMode) {
	case "verify", "trust":
	default:
		errs = append(errs, fmt.Errorf("payment.webhookMode %q must be verify or trust", c.Payment.WebhookMode))
	}
	return errors.Join(errs...)
}

// UsesDevSecret 用于启动时打印告警
func (c *Config) UsesDevSecret() bool { return c.JWT.Secret == DevJWTSecret }
