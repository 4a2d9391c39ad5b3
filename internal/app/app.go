package app

import (
	"context"
	"exam_system_backend/internal/config"
	"exam_system_backend/internal/controller"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/session"
	"exam_system_backend/internal/web"
	"exam_system_backend/pkg/configwatcher"
	"exam_system_backend/pkg/database"
	"exam_system_backend/pkg/logger"
	"exam_system_backend/pkg/monitoring"
	"exam_system_backend/pkg/security"
	"exam_system_backend/pkg/tracing"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Settings *service.ExamSettings

	// ConfigFile is watched for changes while Run is active; empty disables reloads.
	ConfigFile string

	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	organization *repository.OrganizationRepository
	course       *repository.CourseRepository
	teacher      *repository.TeacherRepository
	question     *repository.QuestionRepository
	exam         *repository.ExamRepository
}

type services struct {
	organization *service.OrganizationService
	student      *service.StudentService
	exam         *service.ExamService
	auth         *service.AuthService
	question     *service.QuestionService
	dashboard    *service.DashboardService
	result       *service.ResultService
	storage      *service.StorageService
}

type controllers struct {
	student  *controller.StudentController
	teacher  *controller.TeacherController
	question *controller.QuestionController
	result   *controller.ResultController
	api      *controller.APIController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hands a reloaded config to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		organization: repository.NewOrganizationRepository(db),
		course:       repository.NewCourseRepository(db),
		teacher:      repository.NewTeacherRepository(db),
		question:     repository.NewQuestionRepository(db),
		exam:         repository.NewExamRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	var cache service.OrgCache
	if rdb != nil {
		cache = service.NewRedisOrgCache(rdb, cfg.Redis.CacheTTL)
	}

	s.organization = service.NewOrganizationService(repos.organization, cache)
	s.student = service.NewStudentService(repos.course, repos.question, repos.exam, a.Settings)
	s.exam = service.NewExamService(db, repos.question, repos.exam, a.Settings)
	s.auth = service.NewAuthService(repos.teacher, cfg)
	s.question = service.NewQuestionService(repos.question, repos.course, a.Settings)
	s.dashboard = service.NewDashboardService(repos.question, repos.course, repos.exam)
	s.storage = service.NewStorageService(cfg)
	s.result = service.NewResultService(repos.exam, s.storage, a.Settings)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		student:  controller.NewStudentController(s.organization, s.student, s.exam, a.Settings, cfg.Exam.DefaultOrgCode),
		teacher:  controller.NewTeacherController(s.auth, s.dashboard),
		question: controller.NewQuestionController(s.question, a.Settings),
		result:   controller.NewResultController(s.result, s.question, a.Settings),
		api:      controller.NewAPIController(s.auth, s.dashboard, s.question, s.result),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.Secure())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New wires an App around an open database. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Settings: service.NewExamSettings(cfg.Exam),
	}
	app.RegisterConfigCallback(func(c *config.Config) {
		app.Settings.Apply(c.Exam)
		logger.Log.Info("Exam settings applied",
			zap.Duration("duration", c.Exam.Duration),
			zap.Int("month_count", c.Exam.MonthCount),
			zap.String("timezone", c.Exam.Timezone))
	})

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, cfg, db, rdb)

	store, err := session.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := web.Templates(app.Settings.Location)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, store, cfg)

	return app, nil
}

// SetClock replaces the time source of every service that reads the clock.
func (a *App) SetClock(now func() time.Time) {
	a.services.student.Now = now
	a.services.exam.Now = now
	a.services.result.Now = now
}

// NewApp opens the infrastructure described by cfg and wires the App.
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
	}

	monitoring.Init()

	app, err := New(cfg, db, rdb)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("exam-system", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigFile, a.ApplyConfig); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}

// sessionMiddleware is shared by the student and teacher page groups.
func sessionMiddleware(cfg *config.Config, store sessions.Store) gin.HandlerFunc {
	return session.Middleware(cfg.Session.CookieName, store)
}
