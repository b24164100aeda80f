package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Env            string        `yaml:"env"` // "development" | "production"
	Port           int           `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	FrontendURL    string        `yaml:"frontend_url"`
	CookieName     string        `yaml:"cookie_name"`
	CookieMaxAge   TTL           `yaml:"cookie_max_age"`
	JwtTTL         TTL           `yaml:"jwt_ttl"`
	CodeTTL        TTL           `yaml:"code_ttl"`
	FeedbackDaily  int           `yaml:"feedback_daily_limit"`
	MailQueueSize  int           `yaml:"mail_queue_size"`
	MailBatchSize  int           `yaml:"mail_batch_size"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Pg             PgPublic      `yaml:"pg"`
}

type PgPublic struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Dbname string `yaml:"dbname"`
}

type Private struct {
	Pg             PgPrivate `yaml:"pg"`
	JwtKey         string    `yaml:"jwt_key"`
	BootstrapAdmin string    `yaml:"bootstrap_admin_email"`
	Mail           Mail      `yaml:"mail"`
}

type PgPrivate struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type Mail struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

// New assembles a config from its two halves and fills defaults. MustLoad is
// the production path; New exists for tests and embedded setups.
func New(public Public, private Private) *Config {
	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

// TTL unmarshals either a raw seconds count (7200) or a duration string ("2h").
type TTL struct {
	time.Duration
}

func (t *TTL) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var seconds int64
	if err := unmarshal(&seconds); err == nil {
		t.Duration = time.Duration(seconds) * time.Second
		return nil
	}
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid ttl %q: %w", raw, err)
	}
	t.Duration = d
	return nil
}

// accessors keeping the private part out of handler/service signatures

func (c *Config) JwtKey() string {
	return c.private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL.Duration
}

func (c *Config) BootstrapAdminEmail() string {
	return c.private.BootstrapAdmin
}

func (c *Config) MailConfig() *Mail {
	return &c.private.Mail
}

func (c *Config) PgConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Public.Pg.Host, c.Public.Pg.Port, c.private.Pg.User, c.private.Pg.Password, c.Public.Pg.Dbname)
}

// MailConfigured reports whether an outbound SMTP provider is set up.
// Without one, verification codes are echoed to the caller in development.
func (c *Config) MailConfigured() bool {
	return c.private.Mail.SMTPServer != ""
}

func (c *Config) IsProduction() bool {
	return c.Public.Env == "production"
}

func (c *Config) applyDefaults() {
	if c.Public.Port == 0 {
		c.Public.Port = 4000
	}
	if c.Public.CookieName == "" {
		c.Public.CookieName = "maycoffee_session"
	}
	if c.Public.CookieMaxAge.Duration == 0 {
		c.Public.CookieMaxAge.Duration = 12 * time.Hour
	}
	if c.Public.JwtTTL.Duration == 0 {
		c.Public.JwtTTL.Duration = 2 * time.Hour
	}
	if c.Public.CodeTTL.Duration == 0 {
		c.Public.CodeTTL.Duration = 10 * time.Minute
	}
	if c.Public.FeedbackDaily == 0 {
		c.Public.FeedbackDaily = 3
	}
	if c.Public.MailQueueSize == 0 {
		c.Public.MailQueueSize = 256
	}
	if c.Public.MailBatchSize == 0 {
		c.Public.MailBatchSize = 25
	}
	if c.Public.FrontendURL == "" {
		c.Public.FrontendURL = "http://localhost:3000"
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return New(public, private)
}
