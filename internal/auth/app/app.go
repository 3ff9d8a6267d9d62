package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
	httpapi "github.com/mcitys/mcitys-api/internal/auth/http"
	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/internal/auth/store/drivers/mysql"
	"github.com/mcitys/mcitys-api/internal/contact"
	"github.com/mcitys/mcitys-api/internal/risk"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	redis   *redis.Client
	channel contact.Channel

	flow   *service.AuthenticationFlow
	tokens *service.TokenService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mcitys-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		_ = app.redis.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the MariaDB pool and applies migrations.
func (app *Application) initDatabase() error {
	db, err := mysql.NewStore(app.cfg.MySQL.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initRedis() error {
	client, err := cache.New(cache.Config{
		Addr:     app.cfg.Redis.Addr,
		Password: app.cfg.Redis.Password,
		DB:       app.cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	return nil
}

// initServices builds the business logic services and wires them into the
// orchestrating flow.
func (app *Application) initServices() error {
	privateKey, err := ParseRSAPrivateKey(app.cfg.JWT.PrivateKeyPEM)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}
	publicKey, err := ParseRSAPublicKey(app.cfg.JWT.PublicKeyPEM)
	if err != nil {
		return fmt.Errorf("failed to load verification key: %w", err)
	}

	riskProvider, err := risk.NewProvider(risk.Config{
		Vendor:      app.cfg.Risk.Vendor,
		ProjectID:   app.cfg.Risk.ProjectID,
		SiteKey:     app.cfg.Risk.SiteKey,
		APIKey:      app.cfg.Risk.APIKey,
		StaticScore: app.cfg.Risk.StaticScore,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize risk provider: %w", err)
	}

	if err := app.initContactChannel(); err != nil {
		return err
	}

	app.tokens = &service.TokenService{
		PrivateKey:  privateKey,
		PublicKey:   publicKey,
		Revocations: cache.NewRevocationList(app.redis),
		TTL:         app.cfg.JWT.TTL,
	}

	app.flow = &service.AuthenticationFlow{
		Login:  &service.LoginService{Users: app.db.Users()},
		Tokens: app.tokens,
		RateLimiter: &service.RateLimiter{
			Counter:     cache.NewFailureCounter(app.redis, app.cfg.RateLimit.Window),
			MaxFailures: app.cfg.RateLimit.MaxFailures,
		},
		Risk: &service.RiskEvaluator{
			Provider:   riskProvider,
			BlockBelow: app.cfg.Risk.BlockBelow,
			AllowFrom:  app.cfg.Risk.AllowFrom,
		},
		Sessions: &service.MFASessionService{
			Sessions: cache.NewSessionStore(app.redis, app.cfg.MFA.SessionTTL),
			OTP: &service.OTPService{
				Users:   app.db.Users(),
				Channel: app.channel,
				TTL:     app.cfg.MFA.OTPTTL,
			},
		},
		SecurityLog: &service.SecurityLogger{Journal: app.db.SecurityLog()},
	}

	return nil
}

func (app *Application) initContactChannel() error {
	switch app.cfg.ContactChannel {
	case "sms":
		channel, err := contact.NewSMSChannel(contact.SMSConfig{
			AppKey:      app.cfg.SMS.AppKey,
			AppSecret:   app.cfg.SMS.AppSecret,
			ConsumerKey: app.cfg.SMS.ConsumerKey,
			ServiceName: app.cfg.SMS.ServiceName,
			Sender:      app.cfg.SMS.Sender,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize sms channel: %w", err)
		}
		app.channel = channel
	case "email":
		app.channel = contact.NewEmailChannel(contact.EmailConfig{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			From:     app.cfg.SMTP.From,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
		})
	default:
		return fmt.Errorf("unknown contact channel %q", app.cfg.ContactChannel)
	}
	return nil
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.redis, app.logger)
	app.router.Flow = app.flow
	app.router.Tokens = app.tokens
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
