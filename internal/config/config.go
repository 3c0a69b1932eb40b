package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"plateanet-crawler/internal/components/configutil"
	"plateanet-crawler/internal/crawler"
	"plateanet-crawler/internal/scrapers/plateanet"
)

// TokenEnv overrides the token read from the config file.
const TokenEnv = "PLATEANET_TOKEN"

type EmailConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

// Enabled reports whether enough of the email config is set to send mail.
func (c EmailConfig) Enabled() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.To) > 0
}

type Config struct {
	BaseUrl          string      `json:"base_url"`
	Token            string      `json:"token"`
	Concurrency      int         `json:"concurrency"`
	TimeoutSeconds   int         `json:"timeout_seconds"`
	UserAgent        string      `json:"user_agent"`
	CloudflareBypass bool        `json:"cloudflare_bypass"`
	DumpDir          string      `json:"dump_dir"`
	Email            EmailConfig `json:"email"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ClientOptions maps the config onto the scraper's options, the dump output
// is left for the caller since it needs a directory on disk.
func (c Config) ClientOptions() plateanet.ClientOptions {
	return plateanet.ClientOptions{
		BaseUrl:          c.BaseUrl,
		Token:            c.Token,
		UserAgent:        c.UserAgent,
		Timeout:          c.Timeout(),
		CloudflareBypass: c.CloudflareBypass,
	}
}

func (c *Config) applyDefaults() {
	if c.BaseUrl == "" {
		c.BaseUrl = plateanet.DefaultBaseUrl
	}
	if c.Concurrency == 0 {
		c.Concurrency = crawler.DefaultConcurrency
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Token == "" {
		errs = append(errs, fmt.Errorf("token is required (set it in the config or in %s)", TokenEnv))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds))
	}
	if c.Email.Server != "" && len(c.Email.To) == 0 {
		errs = append(errs, fmt.Errorf("email.to is required when email.server is set"))
	}
	return errors.Join(errs...)
}

// Load reads the config at `path` (and its .local override), a missing file
// is not an error so that everything can come from defaults and the
// environment.
func Load(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Token = token
	}
	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
