package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/infrastructure/events"
	"github.com/you/authsvc/internal/infrastructure/notifications"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/services"
)

// Container holds all dependencies, wired explicitly at startup. Every
// component receives its collaborators through its constructor; there is no
// runtime service locator.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Dispatcher  *events.Dispatcher

	// Repositories
	AccountRepo domain.AccountRepository
	SessionRepo domain.SessionRepository
	TokenRepo   domain.VerificationTokenRepository
	Throttle    domain.ThrottleStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuthSvc         domain.AuthService
	ResetSvc        domain.PasswordResetService
	PolicySvc       domain.PolicyService
	Sweeper         *services.Sweeper
}

// NewContainer creates and initializes all dependencies.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas

	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	c.Dispatcher = events.NewDispatcher(256, c.Logger)
	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB)
	c.TokenRepo = repositories.NewVerificationTokenRepository(c.DB)
	c.Throttle = repositories.NewThrottleStore(c.RedisClient)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService()

	tokenSvc, err := auth.NewJWTServiceFromFiles(
		c.Config.JWTPrivateKeyFile,
		c.Config.JWTPublicKeyFile,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	if err != nil {
		return err
	}
	c.TokenSvc = tokenSvc

	c.NotificationSvc = notifications.NewService(notifications.Config{
		SMTPHost:    c.Config.SMTPHost,
		SMTPPort:    c.Config.SMTPPort,
		SMTPFrom:    c.Config.SMTPFrom,
		SMTPUser:    c.Config.SMTPUser,
		SMTPPass:    c.Config.SMTPPass,
		TwilioSID:   c.Config.TwilioSID,
		TwilioToken: c.Config.TwilioToken,
		TwilioFrom:  c.Config.TwilioFrom,
	})

	c.AuthSvc = services.NewAuthService(
		c.AccountRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Throttle,
		c.Dispatcher,
		services.AuthConfig{
			LoginLimit:  c.Config.LoginLimit,
			LoginWindow: c.Config.LoginWindow,
		},
	)

	c.ResetSvc = services.NewPasswordResetService(
		c.AccountRepo,
		c.TokenRepo,
		c.PasswordSvc,
		c.Throttle,
		c.Dispatcher,
		services.ResetConfig{
			TokenLength:  c.Config.ResetTokenLength,
			TTL:          c.Config.ResetTTL,
			ResendLimit:  c.Config.ResetResendLimit,
			ResendWindow: c.Config.ResetResendWindow,
		},
	)

	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
	c.Sweeper = services.NewSweeper(c.SessionRepo, c.TokenRepo, c.Config.SweepInterval, c.Logger)

	return nil
}

// Close closes all connections.
func (c *Container) Close() error {
	if c.Dispatcher != nil {
		c.Dispatcher.Close()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
