package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/application/template"
	"github.com/by22shh/buh-ai-assistant/internal/config"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/dynamo"
	jwtinfra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/jwt"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mailersend"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/memory"
	redisinfra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/redis"
	s3infra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/s3"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/smtp"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/sns"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/otp"
	transporthttp "github.com/by22shh/buh-ai-assistant/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtProvider, err := newTokenProvider(cfg)
	if err != nil {
		return err
	}
	hasher, err := otp.NewBcryptHasher(cfg.OTP.HashCost)
	if err != nil {
		return fmt.Errorf("otp hasher: %w", err)
	}

	sender, err := newMailSender(cfg)
	if err != nil {
		return err
	}
	dispatcher := mail.NewDispatcher(sender, cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.SendTimeout)

	// Security events fan out to SNS only when a topic is configured.
	var rec audit.Recorder
	if cfg.SecurityTopicARN != "" {
		pub, err := sns.NewPublisher(cfg)
		if err != nil {
			return fmt.Errorf("sns publisher: %w", err)
		}
		rec = audit.NewRecorder(slog.Default(), pub)
	} else {
		rec = audit.NewRecorder(slog.Default(), nil)
	}

	deps := &transporthttp.Deps{
		JWTProvider: jwtProvider,
		Hasher:      hasher,
		Mail:        dispatcher,
		Audit:       rec,
	}
	closeBackends, err := wireBackends(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer closeBackends()

	seeded, err := template.NewService(template.ServiceDeps{
		TemplateRepo: deps.TemplateRepo,
		BodyStore:    deps.TemplateBodies,
	}).Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	slog.Info("template catalog ready", "inserted", seeded)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           transporthttp.NewRouter(ctx, cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"store", cfg.StoreBackend, "sessions", cfg.SessionBackend, "rate_limit", cfg.RateLimitBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Warn("mail queue not drained", "err", err)
	}
	slog.Info("server stopped")
	return nil
}

// wireBackends fills the store fields of deps according to the configured
// backends. The returned func releases external connections.
func wireBackends(ctx context.Context, cfg *config.Config, deps *transporthttp.Deps) (func(), error) {
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var rdb *redis.Client
	if cfg.SessionBackend == "redis" || cfg.RateLimitBackend == "redis" {
		c, err := redisinfra.New(ctx, cfg)
		if err != nil {
			return closeAll, err
		}
		rdb = c
		closers = append(closers, func() { _ = c.Close() })
	}

	memSessions := memory.NewSessionRepo()
	memVerifications := memory.NewVerificationRepo()
	memBuckets := memory.NewBucketStore()

	switch cfg.StoreBackend {
	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return closeAll, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		deps.UserRepo = dynamo.NewUserRepo(client, cfg.DynamoTables.Users)
		deps.VerificationRepo = dynamo.NewVerificationRepo(client, cfg.DynamoTables.Verifications)
		deps.OrganizationRepo = dynamo.NewOrganizationRepo(client, cfg.DynamoTables.Organizations)
		deps.DocumentRepo = dynamo.NewDocumentRepo(client, cfg.DynamoTables.Documents)
		deps.TemplateRepo = dynamo.NewTemplateRepo(client, cfg.DynamoTables.Templates)
		if cfg.SessionBackend == "dynamo" {
			deps.SessionRepo = dynamo.NewSessionRepo(client, cfg.DynamoTables.Sessions)
		}
	case "memory":
		deps.UserRepo = memory.NewUserRepo()
		deps.VerificationRepo = memVerifications
		deps.OrganizationRepo = memory.NewOrganizationRepo()
		deps.DocumentRepo = memory.NewDocumentRepo()
		deps.TemplateRepo = memory.NewTemplateRepo()
		memory.StartJanitor(ctx, time.Minute, memVerifications)
	default:
		return closeAll, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.SessionBackend {
	case "redis":
		deps.SessionRepo = redisinfra.NewSessionRepo(rdb)
	case "dynamo":
		if deps.SessionRepo == nil {
			return closeAll, errors.New("SESSION_BACKEND=dynamo requires STORE_BACKEND=dynamo")
		}
	case "memory":
		deps.SessionRepo = memSessions
		memory.StartJanitor(ctx, time.Minute, memSessions)
	default:
		return closeAll, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	switch cfg.RateLimitBackend {
	case "redis":
		deps.Buckets = redisinfra.NewBucketStore(rdb)
	case "memory":
		deps.Buckets = memBuckets
		memory.StartJanitor(ctx, time.Minute, memBuckets)
	default:
		return closeAll, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", cfg.RateLimitBackend)
	}

	switch cfg.TemplateBodyBackend {
	case "s3":
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return closeAll, err
		}
		deps.TemplateBodies = s3infra.NewBodyStore(client, cfg.S3BucketName)
	case "memory":
		deps.TemplateBodies = memory.NewBodyStore()
	default:
		return closeAll, fmt.Errorf("unknown TEMPLATE_BODY_BACKEND %q", cfg.TemplateBodyBackend)
	}

	return closeAll, nil
}

// newTokenProvider loads the RSA key pair. Outside production a missing key
// pair falls back to an in-memory one, which invalidates sessions on restart.
func newTokenProvider(cfg *config.Config) (*jwtinfra.Provider, error) {
	p, err := jwtinfra.NewProvider(cfg)
	if err == nil {
		return p, nil
	}
	if cfg.IsProduction() {
		return nil, fmt.Errorf("jwt provider: %w", err)
	}
	slog.Warn("JWT keys not available, using ephemeral key pair", "err", err)
	return jwtinfra.NewEphemeralProvider()
}

func newMailSender(cfg *config.Config) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		return smtp.NewMailer(cfg.Mail), nil
	case "mailersend":
		return mailersend.NewSender(cfg.Mail.MailerSendKey, cfg.Mail.FromName, cfg.Mail.From)
	case "log":
		// The log provider writes login codes in plaintext.
		if cfg.IsProduction() {
			return nil, errors.New("MAIL_PROVIDER=log is not allowed in production")
		}
		return mail.LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.Mail.Provider)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
