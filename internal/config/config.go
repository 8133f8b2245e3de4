package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the portfolio backend.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	EmailJS  EmailJSConfig
	SMTP     SMTPConfig
	Notify   NotifyConfig
	Admin    AdminConfig
	LogLevel string
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr             string
	FrontendURL      string
	StaticDir        string
	ContactRateLimit int
	// TrustedProxies is how many reverse proxies append to X-Forwarded-For.
	// Zero means clients connect directly and the header is ignored.
	TrustedProxies int
}

// DatabaseConfig selects the contact store. An empty URL keeps messages in
// memory only.
type DatabaseConfig struct {
	URL          string
	StoreTimeout time.Duration
}

// EmailJSConfig holds the EmailJS identifiers. The public three are also
// served to the browser; PrivateKey never leaves the server.
type EmailJSConfig struct {
	PublicKey  string
	ServiceID  string
	TemplateID string
	PrivateKey string
	BaseURL    string
}

// SMTPConfig configures the SMTP notifier.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// NotifyConfig controls the notification side channel.
type NotifyConfig struct {
	Driver   string
	OnServer bool
	Timeout  time.Duration
}

// AdminConfig protects the message listing. An empty Token leaves it open.
type AdminConfig struct {
	Token string
}

// Load reads .env (when present) and the environment, applies defaults and
// returns every validation problem at once.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}
	cfg := &Config{}

	cfg.Server.Addr = ldr.getAddr("PORT", "8080")
	cfg.Server.FrontendURL = ldr.getString("FRONTEND_URL", "http://localhost:5173")
	cfg.Server.StaticDir = ldr.getString("STATIC_DIR", "")
	cfg.Server.ContactRateLimit = ldr.getInt("CONTACT_RATE_LIMIT", 5)
	cfg.Server.TrustedProxies = ldr.getInt("TRUSTED_PROXY_COUNT", 0)

	cfg.Database.URL = ldr.getString("DATABASE_URL", "")
	cfg.Database.StoreTimeout = ldr.getSeconds("STORE_TIMEOUT_SECONDS", 10)

	cfg.EmailJS.PublicKey = ldr.getString("EMAILJS_PUBLIC_KEY", "")
	cfg.EmailJS.ServiceID = ldr.getString("EMAILJS_SERVICE_ID", "")
	cfg.EmailJS.TemplateID = ldr.getString("EMAILJS_TEMPLATE_ID", "")
	cfg.EmailJS.PrivateKey = ldr.getString("EMAILJS_PRIVATE_KEY", "")
	cfg.EmailJS.BaseURL = ldr.getString("EMAILJS_BASE_URL", "https://api.emailjs.com")

	cfg.SMTP.Host = ldr.getString("SMTP_HOST", "")
	cfg.SMTP.Port = ldr.getInt("SMTP_PORT", 587)
	cfg.SMTP.User = ldr.getString("SMTP_USER", "")
	cfg.SMTP.Pass = ldr.getString("SMTP_PASS", "")
	cfg.SMTP.From = ldr.getString("SMTP_FROM", "")
	cfg.SMTP.To = ldr.getString("CONTACT_TO_EMAIL", "")

	cfg.Notify.Driver = strings.ToLower(ldr.getString("NOTIFY_DRIVER", "auto"))
	cfg.Notify.OnServer = ldr.getBool("NOTIFY_ON_SERVER", true)
	cfg.Notify.Timeout = ldr.getSeconds("NOTIFY_TIMEOUT_SECONDS", 15)

	cfg.Admin.Token = ldr.getString("ADMIN_TOKEN", "")
	cfg.LogLevel = ldr.getString("LOG_LEVEL", "INFO")

	switch cfg.Notify.Driver {
	case "auto", "emailjs", "smtp", "log":
	default:
		ldr.addError(fmt.Sprintf("NOTIFY_DRIVER must be one of auto, emailjs, smtp, log (got %q)", cfg.Notify.Driver))
	}
	if cfg.Server.ContactRateLimit <= 0 {
		ldr.addError("CONTACT_RATE_LIMIT must be positive")
	}
	if cfg.Server.TrustedProxies < 0 {
		ldr.addError("TRUSTED_PROXY_COUNT must not be negative")
	}
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		ldr.addError(fmt.Sprintf("SMTP_PORT out of range: %d", cfg.SMTP.Port))
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}

func (l *envLoader) getString(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		if val = strings.TrimSpace(val); val != "" {
			return val
		}
	}
	return def
}

func (l *envLoader) getInt(key string, def int) int {
	raw := l.getString(key, "")
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getBool(key string, def bool) bool {
	raw := l.getString(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid boolean", key))
		return def
	}
	return b
}

func (l *envLoader) getSeconds(key string, def int) time.Duration {
	n := l.getInt(key, def)
	if n <= 0 {
		l.addError(fmt.Sprintf("%s must be positive", key))
		n = def
	}
	return time.Duration(n) * time.Second
}

// getAddr accepts a bare port ("8080") or a listen address (":8080",
// "127.0.0.1:8080").
func (l *envLoader) getAddr(key, def string) string {
	port := l.getString(key, def)
	if strings.Contains(port, " ") {
		l.addError(fmt.Sprintf("invalid %s value: %q", key, port))
		return ":" + def
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
