package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/applies"
	"resume-tailor/internal/documents"
	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/llm/gemini"
	"resume-tailor/internal/llm/openai"
	"resume-tailor/internal/mailer"
	"resume-tailor/internal/render"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/storage/object"
	localstore "resume-tailor/internal/shared/storage/object/local"
	s3store "resume-tailor/internal/shared/storage/object/s3"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/tailoring"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store

	HistoryRepo history.Repo
	LLM         llm.Client
	Mailer      *mailer.Mailer
	Renderer    *render.Renderer

	HistoryService   *history.Service
	TailorService    *tailoring.Service
	SendService      *applies.Service
	DocumentsService *documents.Service
}

// Build prepares every dependency and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{Config: cfg, Renderer: render.New(render.DefaultStyle())}

	repo, sqlDB, err := buildHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.HistoryRepo, app.DB = repo, sqlDB

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.LLM, err = buildLLM(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	app.Mailer = buildMailer(cfg)

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Handlers: []server.RouteRegistrar{
			tailoring.NewHandler(app.TailorService),
			applies.NewHandler(app.SendService),
			documents.NewHandler(app.DocumentsService),
			history.NewHandler(app.HistoryService),
			render.NewHandler(app.Renderer),
		},
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildServices(app *App) {
	app.HistoryService = &history.Service{Repo: app.HistoryRepo}

	app.TailorService = &tailoring.Service{
		History:   app.HistoryService,
		Extractor: tailoring.FirstLineExtractor{},
		Retry:     tailoring.DefaultRetryPolicy(),
		Provider:  app.Config.LLMProvider,
	}
	if app.LLM != nil {
		app.TailorService.LLM = app.LLM
	}

	app.SendService = applies.NewService(nil, app.HistoryService, app.Renderer)
	if app.Mailer != nil {
		app.SendService.Mailer = app.Mailer
	}

	app.DocumentsService = &documents.Service{}
	if app.Store != nil {
		app.DocumentsService.Store = app.Store
	}
}

func buildHistory(ctx context.Context, cfg config.Config) (history.Repo, *sql.DB, error) {
	switch cfg.HistoryStore {
	case "memory":
		return history.NewMemoryRepo(), nil, nil
	case "postgres":
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.db_unavailable", map[string]any{
					"error":        err,
					"history_file": cfg.HistoryFile,
				})
				return history.NewFileRepo(cfg.HistoryFile), nil, nil
			}
			return nil, nil, err
		}
		return &history.PGRepo{DB: sqlDB}, sqlDB, nil
	default:
		return history.NewFileRepo(cfg.HistoryFile), nil, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("HISTORY_STORE=postgres requires DATABASE_URL")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "none":
		return nil, nil
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM returns nil when no usable API key is configured; tailoring then
// answers with a misconfiguration error instead of calling the provider.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	key := cfg.LLMAPIKey()
	if llm.IsPlaceholderKey(key) {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return nil, nil
	}
	model := cfg.LLMModel
	if model == "" {
		model = llm.DefaultModel(cfg.LLMProvider)
	}

	switch cfg.LLMProvider {
	case llm.ProviderOpenAI:
		c, err := openai.NewClient(key, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := gemini.NewClient(ctx, key, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func buildMailer(cfg config.Config) *mailer.Mailer {
	if strings.TrimSpace(cfg.SMTP.User) == "" {
		telemetry.Warn("bootstrap.smtp_unconfigured", nil)
		return nil
	}
	return mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Secure:   cfg.SMTP.Secure,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
