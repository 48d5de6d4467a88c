package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rampagehq/userapi/modules/user"
	"github.com/rampagehq/userapi/pipeline"
	"github.com/rampagehq/userapi/pkg/activity"
	"github.com/rampagehq/userapi/pkg/clientip"
	"github.com/rampagehq/userapi/pkg/config"
	"github.com/rampagehq/userapi/pkg/httpserver"
	"github.com/rampagehq/userapi/pkg/logger"
	"github.com/rampagehq/userapi/pkg/mongo"
	"github.com/rampagehq/userapi/pkg/ratelimit"
	"github.com/rampagehq/userapi/pkg/redis"
	"github.com/rampagehq/userapi/pkg/requestid"
	"github.com/rampagehq/userapi/pkg/token"
)

type appConfig struct {
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret string     `env:"JWT_SECRET,required"`
	JWTIssuer string     `env:"JWT_ISSUER" envDefault:"userapi"`

	RateLimit ratelimit.Config `envPrefix:"RATE_LIMIT_"`

	Server httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(logger.FormatJSON),
		logger.WithService("userapi"),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect", logger.Error(err))
		}
	}()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("redis close", logger.Error(err))
		}
	}()

	accounts := user.NewMongoStorage(db.Collection("users"))
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return err
	}

	activityStore := activity.NewMongoStorage(db.Collection("user_activity"))
	activityLog := activity.NewLogger(activityStore,
		activity.WithDiagnostics(log),
		activity.WithRequestIDExtractor(requestid.FromContextOK),
		activity.WithIPExtractor(clientip.FromContextOK),
	)

	store, err := ratelimit.NewRedisStore(rdb, "ratelimit")
	if err != nil {
		return err
	}

	limiter, err := ratelimit.New(store, cfg.RateLimit,
		ratelimit.WithCategory(user.CategoryDataExport, ratelimit.Config{Limit: 3, Window: 24 * time.Hour}),
	)
	if err != nil {
		return err
	}

	tokens, err := token.New([]byte(cfg.JWTSecret), token.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return err
	}

	svc := user.NewService(accounts, activityStore, newLogMailer(log), newLogExporter(log), log)

	registry := pipeline.NewRegistry()
	if err := user.Register(registry, svc); err != nil {
		return err
	}

	executor, err := pipeline.NewExecutor(registry, pipeline.Components{
		Verifier: user.NewTokenVerifier(tokens),
		Accounts: accounts,
		Limiter:  limiter,
		Activity: activityLog,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Mount("/", executor.Handler())

	return httpserver.New(cfg.Server, log).Run(ctx, router)
}

// logMailer stands in for a real delivery provider: it writes the code to
// the log so local and staging environments work without SMTP credentials.
type logMailer struct {
	log *slog.Logger
}

func newLogMailer(log *slog.Logger) *logMailer {
	return &logMailer{log: log}
}

func (m *logMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.log.InfoContext(ctx, "verification code issued",
		slog.String("email", email),
		slog.String("code", code),
	)
	return nil
}

// logExporter acknowledges export requests with a generated request id. The
// actual fulfillment pipeline picks requests up out of band.
type logExporter struct {
	log *slog.Logger
}

func newLogExporter(log *slog.Logger) *logExporter {
	return &logExporter{log: log}
}

func (e *logExporter) Enqueue(ctx context.Context, subjectID string) (string, error) {
	requestID := uuid.New().String()
	e.log.InfoContext(ctx, "data export requested",
		logger.UserID(subjectID),
		slog.String("export_request_id", requestID),
	)
	return requestID, nil
}
