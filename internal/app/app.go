package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
)

// Run wires the application and serves HTTP until the process exits.
func Run(cfg *config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}

	// Password reset codes leave the process through the notification
	// dispatcher, decoupled from the request that created them.
	c.Dispatcher.Subscribe(domain.PasswordResetRequestedEvent, func(event *domain.Event) {
		token, _ := event.Metadata["token"].(string)
		minutes, _ := event.Metadata["expires_in_minutes"].(int)
		body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", token, minutes)
		if err := c.NotificationSvc.SendEmail(event.Email, "Password reset", body); err != nil {
			logger.Error("reset email delivery failed", zap.String("email", event.Email), zap.Error(err))
		}
	})

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go c.Sweeper.Run(sweepCtx)

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.ResetSvc, cfg.AccessTTL, cfg.RefreshTTL, logger)
	polH := &handlers.PolicyHandlers{E: c.Casbin.E}
	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, polH, jwtMW, casbinMW)

	seedPolicies(c)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func seedPolicies(c *Container) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_admin", "/auth/me", "GET")
	c.Casbin.E.AddPolicy("role_admin", "/auth/logout", "POST")
	c.Casbin.E.AddPolicy("role_customer", "/auth/me", "GET")
	c.Casbin.E.AddPolicy("role_customer", "/auth/logout", "POST")
	_ = c.Casbin.E.SavePolicy()
	c.Logger.Info("casbin: seeded default policies")
}
