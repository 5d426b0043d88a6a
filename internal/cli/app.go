package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/document"
	"github.com/dmitrijs2005/cardiq/internal/generation"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/pdfco"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
	"github.com/dmitrijs2005/cardiq/internal/s3store"
	"github.com/dmitrijs2005/cardiq/internal/services"
	"github.com/dmitrijs2005/cardiq/internal/storage"
	"github.com/dmitrijs2005/cardiq/internal/study"
)

// Test seams for the external pipeline. The generation client is built on
// first use because it needs an API key that most commands never touch.
var (
	newGenerationClient = func(cfg config.GenerationConfig, log logging.Logger) (generation.Client, error) {
		return generation.NewOpenAIClient(cfg, log)
	}
	newDocumentPipeline = defaultDocumentPipeline
)

// App holds the services of one CLI invocation.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager

	authService     *services.AuthService
	categoryService *services.CategoryService
	topicService    *services.TopicService
	statsService    *services.StatsService
	studyService    *study.Service
	generator       *services.GenerationService

	reader *bufio.Reader
	out    io.Writer
}

// openApp opens the database of cfg and builds the App over it.
func openApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a, err := NewApp(cfg, log, db, in, out)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug(ctx, "database ready", "path", cfg.Database.Path)
	return a, nil
}

func NewApp(cfg *config.Config, log logging.Logger, db *sql.DB, in io.Reader, out io.Writer) (*App, error) {
	repos := repomanager.NewSQLiteRepositoryManager()

	stats, err := services.NewStatsService(db, repos, cfg.Stats, log)
	if err != nil {
		return nil, err
	}

	return &App{
		config:          cfg,
		log:             log,
		db:              db,
		repos:           repos,
		authService:     services.NewAuthService(db, repos, cfg.Session, log),
		categoryService: services.NewCategoryService(db, repos, log),
		topicService:    services.NewTopicService(db, repos, log),
		statsService:    stats,
		studyService:    study.NewService(db, repos, log),
		reader:          bufio.NewReader(in),
		out:             out,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// session restores the login persisted on this device.
func (a *App) session(ctx context.Context) (*auth.Session, error) {
	return a.authService.Resume(ctx)
}

func (a *App) generationService() (*services.GenerationService, error) {
	if a.generator != nil {
		return a.generator, nil
	}
	client, err := newGenerationClient(a.config.Generation, a.log)
	if err != nil {
		return nil, err
	}
	a.generator = services.NewGenerationService(a.db, a.repos, client,
		newDocumentPipeline(a.config.Documents, a.log), a.log)
	return a.generator, nil
}

// defaultDocumentPipeline extracts text with PDF.co and uploads either to
// PDF.co itself or to the configured S3 bucket.
func defaultDocumentPipeline(cfg config.DocumentsConfig, log logging.Logger) document.Pipeline {
	pc := pdfco.NewClient(cfg, log)
	p := document.Pipeline{Uploader: pc, Extractor: pc}
	if cfg.Uploader == config.UploaderS3 {
		p.Uploader = s3store.NewUploader(cfg.S3, log)
	}
	return p
}
