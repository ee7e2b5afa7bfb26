package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/myaicademy/curriculum-ops/internal/db"
	"github.com/myaicademy/curriculum-ops/internal/handlers"
	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/server"
	"github.com/myaicademy/curriculum-ops/internal/services"
)

type Repos struct {
	Provider     repos.ProviderRepo
	Lesson       repos.LessonRepo
	Course       repos.CourseRepo
	CourseLesson repos.CourseLessonRepo
	MappingRule  repos.MappingRuleRepo
	Update       repos.UpdateRepo
	ImpactReport repos.ImpactReportRepo
	AuditLog     repos.AuditLogRepo
}

type Services struct {
	Analyzer    services.AnalyzerService
	Review      services.ReviewService
	MappingRule services.MappingRuleService
	Catalog     services.CatalogService
	Watcher     services.WatcherService
	Synthesizer services.CourseSynthesizer
	Seed        services.SeedService
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Router   *gin.Engine
	Repos    *Repos
	Services *Services

	sqlite *db.SQLiteService
	cron   *cron.Cron
	cancel context.CancelFunc
}

func New() (*App, error) {
	log, err := logger.New("dev")
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	cfg := LoadConfig(log)
	if cfg.Mode != "dev" {
		if log, err = logger.New(cfg.Mode); err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
	}

	sqlite, err := db.NewSQLiteService(log)
	if err != nil {
		return nil, err
	}
	if err := sqlite.AutoMigrateAll(); err != nil {
		return nil, err
	}
	gdb := sqlite.DB()

	appRepos := wireRepos(gdb, log)
	appServices := wireServices(gdb, log, cfg, appRepos)
	router := wireRouter(appRepos, appServices)

	app := &App{
		Log:      log,
		Cfg:      cfg,
		DB:       gdb,
		Router:   router,
		Repos:    appRepos,
		Services: appServices,
		sqlite:   sqlite,
	}

	if cfg.SeedOnBoot {
		if err := appServices.Seed.SeedCatalog(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return app, nil
}

func wireRepos(gdb *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		Provider:     repos.NewProviderRepo(gdb, log),
		Lesson:       repos.NewLessonRepo(gdb, log),
		Course:       repos.NewCourseRepo(gdb, log),
		CourseLesson: repos.NewCourseLessonRepo(gdb, log),
		MappingRule:  repos.NewMappingRuleRepo(gdb, log),
		Update:       repos.NewUpdateRepo(gdb, log),
		ImpactReport: repos.NewImpactReportRepo(gdb, log),
		AuditLog:     repos.NewAuditLogRepo(gdb, log),
	}
}

func wireServices(gdb *gorm.DB, log *logger.Logger, cfg Config, r *Repos) *Services {
	analyzer := services.NewAnalyzerService(gdb, log, r.Lesson, r.Update, r.ImpactReport)
	review := services.NewReviewService(gdb, log, r.ImpactReport, r.AuditLog)
	rules := services.NewMappingRuleService(gdb, log, r.MappingRule, r.AuditLog)
	catalog := services.NewCatalogService(gdb, log, r.Provider, r.Lesson, r.Course, r.CourseLesson, r.Update, r.ImpactReport, analyzer)
	watcher := services.NewWatcherService(log, r.Provider, r.Update)
	seed := services.NewSeedService(gdb, log, r.Provider, r.Lesson, r.Course, r.CourseLesson, rules)

	// A missing API key disables generation but not the rest of the API.
	gen, err := services.NewAnthropicClient(log)
	if err != nil {
		log.Warn("Generation client unavailable, course generation disabled", "error", err)
		gen = nil
	}
	synthesizer := services.NewCourseSynthesizer(gdb, log, gen,
		r.ImpactReport, r.Update, r.Lesson, r.Course, r.CourseLesson, r.Provider, r.AuditLog,
		cfg.GenerationDelay)

	return &Services{
		Analyzer:    analyzer,
		Review:      review,
		MappingRule: rules,
		Catalog:     catalog,
		Watcher:     watcher,
		Synthesizer: synthesizer,
		Seed:        seed,
	}
}

func wireRouter(r *Repos, s *Services) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		HealthcheckHandler:  handlers.NewHealthcheckHandler(),
		ProviderHandler:     handlers.NewProviderHandler(s.Catalog),
		LessonHandler:       handlers.NewLessonHandler(s.Catalog),
		CourseHandler:       handlers.NewCourseHandler(s.Catalog),
		UpdateHandler:       handlers.NewUpdateHandler(s.Watcher),
		ImpactReportHandler: handlers.NewImpactReportHandler(s.Review, s.Analyzer, s.Watcher),
		MappingRuleHandler:  handlers.NewMappingRuleHandler(s.MappingRule),
		AuditLogHandler:     handlers.NewAuditLogHandler(r.AuditLog),
		DashboardHandler:    handlers.NewDashboardHandler(s.Catalog),
		CourseGenHandler:    handlers.NewCourseGenHandler(s.Synthesizer),
	})
}

// Start launches the scheduled fetch-and-analyze job.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.cron = cron.New()
	_, err := a.cron.AddFunc(a.Cfg.WatcherSchedule, func() {
		a.Log.Info("Scheduled watcher run starting")
		if _, err := a.Services.Watcher.FetchAll(ctx, a.Cfg.UseSimulated); err != nil {
			a.Log.Error("Scheduled fetch failed", "error", err)
			return
		}
		reports, err := a.Services.Analyzer.AnalyzeAllUnprocessed(ctx)
		if err != nil {
			a.Log.Error("Scheduled analysis finished with errors", "error", err, "reports", len(reports))
			return
		}
		a.Log.Info("Scheduled watcher run complete", "reports", len(reports))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule watcher: %w", err)
	}
	a.cron.Start()
	a.Log.Info("Watcher scheduled", "schedule", a.Cfg.WatcherSchedule)
	return nil
}

func (a *App) Run() error {
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		a.cron.Stop()
	}
	a.Log.Sync()
}
