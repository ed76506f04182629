package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "GARAGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Client  ClientConfig
	Session SessionConfig
	Gateway GatewayConfig
	Stub    StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GARAGE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"GARAGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GARAGE_LOG_WARN_STACK" default:"false"`
	Locale       string `envconfig:"GARAGE_LOCALE" default:"vi"`
	Metrics      bool   `envconfig:"GARAGE_METRICS" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ClientConfig struct {
	BaseURL     string        `envconfig:"GARAGE_BASE_URL" default:"http://localhost:5000"`
	HTTPTimeout time.Duration `envconfig:"GARAGE_HTTP_TIMEOUT" default:"10s"`
	LoginPath   string        `envconfig:"GARAGE_LOGIN_PATH" default:"/login"`
}

type SessionConfig struct {
	Token     string `envconfig:"GARAGE_SESSION_TOKEN"`
	JWTSecret string `envconfig:"GARAGE_JWT_SECRET" default:"dev-secret"`
	JWTIssuer string `envconfig:"GARAGE_JWT_ISSUER" default:"garage"`
}

// GatewayConfig carries the signed-checkout-URL parameters used by the dev
// stub server. Defaults mirror the sandbox merchant account.
type GatewayConfig struct {
	TmnCode    string `envconfig:"GARAGE_GATEWAY_TMN_CODE" default:"Q2FNEKGM"`
	HashSecret string `envconfig:"GARAGE_GATEWAY_HASH_SECRET" default:"0TCYX8WBOXJIRXHOTYJFD65650S06J6I"`
	PaymentURL string `envconfig:"GARAGE_GATEWAY_PAYMENT_URL" default:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	ReturnURL  string `envconfig:"GARAGE_GATEWAY_RETURN_URL" default:"http://localhost:5000/payment_return"`
}

type StubConfig struct {
	Port              string        `envconfig:"GARAGE_STUB_PORT" default:"5000"`
	SessionTTLMinutes int           `envconfig:"GARAGE_STUB_SESSION_TTL_MINUTES" default:"60"`
	ShutdownTimeout   time.Duration `envconfig:"GARAGE_STUB_SHUTDOWN_TIMEOUT" default:"5s"`
}

// SessionTTL returns the stub session lifetime configured in minutes.
func (s StubConfig) SessionTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}
