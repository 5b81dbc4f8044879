package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	PrivateKeyFile string `yaml:"private_key_file"`
	PublicKeyFile  string `yaml:"public_key_file"`
	Issuer         string `yaml:"issuer"`
	AccessTTL      string `yaml:"access_ttl"`
	RefreshTTL     string `yaml:"refresh_ttl"`
}

type ResetConfig struct {
	TokenLength  int    `yaml:"token_length"`
	TTL          string `yaml:"ttl"`
	ResendLimit  int    `yaml:"resend_limit"`
	ResendWindow string `yaml:"resend_window"`
}

type ThrottleConfig struct {
	LoginLimit  int    `yaml:"login_limit"`
	LoginWindow string `yaml:"login_window"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type SweepConfig struct {
	Interval string `yaml:"interval"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Reset    ResetConfig    `yaml:"reset"`
	Throttle ThrottleConfig `yaml:"throttle"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Sweep    SweepConfig    `yaml:"sweep"`
}

type Config struct {
	Port              string
	GinMode           string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTPrivateKeyFile string
	JWTPublicKeyFile  string
	JWTIssuer         string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	ResetTokenLength  int
	ResetTTL          time.Duration
	ResetResendLimit  int
	ResetResendWindow time.Duration
	LoginLimit        int
	LoginWindow       time.Duration
	SMTPHost          string
	SMTPPort          int
	SMTPFrom          string
	SMTPUser          string
	SMTPPass          string
	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	CasbinModelPath   string
	SweepInterval     time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the YAML config file and resolves durations. The config path can
// be overridden with the CONFIG_FILE environment variable.
func Load() (*Config, error) {
	path := env("CONFIG_FILE", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	resetTTL, err := time.ParseDuration(configFile.Reset.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	resendWnd, err := time.ParseDuration(configFile.Reset.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid reset resend window: %w", err)
	}

	loginWnd, err := time.ParseDuration(configFile.Throttle.LoginWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid login throttle window: %w", err)
	}

	sweepInterval, err := time.ParseDuration(configFile.Sweep.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	return &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		DSN:               env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:         env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:     env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           configFile.Redis.DB,
		JWTPrivateKeyFile: env("JWT_PRIVATE_KEY_FILE", configFile.JWT.PrivateKeyFile),
		JWTPublicKeyFile:  env("JWT_PUBLIC_KEY_FILE", configFile.JWT.PublicKeyFile),
		JWTIssuer:         configFile.JWT.Issuer,
		AccessTTL:         accTTL,
		RefreshTTL:        refTTL,
		ResetTokenLength:  configFile.Reset.TokenLength,
		ResetTTL:          resetTTL,
		ResetResendLimit:  configFile.Reset.ResendLimit,
		ResetResendWindow: resendWnd,
		LoginLimit:        configFile.Throttle.LoginLimit,
		LoginWindow:       loginWnd,
		SMTPHost:          env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:          configFile.SMTP.Port,
		SMTPFrom:          configFile.SMTP.From,
		SMTPUser:          env("SMTP_USER", configFile.SMTP.User),
		SMTPPass:          env("SMTP_PASS", configFile.SMTP.Pass),
		TwilioSID:         env("TWILIO_SID", configFile.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:        configFile.Twilio.FromNumber,
		CasbinModelPath:   configFile.Casbin.ModelPath,
		SweepInterval:     sweepInterval,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
