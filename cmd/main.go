package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/classpad/classpad/config"
	"github.com/classpad/classpad/internal/auth"
	"github.com/classpad/classpad/internal/bot"
	"github.com/classpad/classpad/internal/controller"
	studentctrl "github.com/classpad/classpad/internal/controller/student"
	teacherctrl "github.com/classpad/classpad/internal/controller/teacher"
	"github.com/classpad/classpad/internal/files"
	"github.com/classpad/classpad/internal/logger"
	"github.com/classpad/classpad/internal/notify"
	"github.com/classpad/classpad/internal/repository"
	"github.com/classpad/classpad/internal/scoring"
	"github.com/classpad/classpad/internal/service"
	"github.com/classpad/classpad/internal/store"
)

func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			NewStore,
			NewFileStore,
			NewBotAPI,
			NewNotifier,
			NewGinEngine,
			func() repository.Clock { return repository.SystemClock },
			scoring.NewGrader,
			func(cfg *config.Config) *auth.Validator {
				return auth.NewValidator(cfg.Telegram.BotToken)
			},
		),

		// Repositories Layer
		fx.Provide(
			repository.NewClassRepository,
			repository.NewAssignmentRepository,
			repository.NewSubmissionRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			func(s *store.Store, notifier notify.Notifier, clock repository.Clock) service.SnapshotService {
				return service.NewSnapshotService(s, notifier, clock)
			},
			service.NewAssignmentService,
			service.NewStudentService,
			service.NewTeacherQuizService,
			service.NewStudentQuizService,
		),

		// API Controllers and Bot Layer
		fx.Provide(
			teacherctrl.NewTeacherController,
			studentctrl.NewStudentController,
			NewBot,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartBot),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewStore(cfg *config.Config) (*store.Store, error) {
	return store.New(cfg.Storage.DataPath)
}

func NewFileStore(cfg *config.Config) (*files.Store, error) {
	return files.NewStore(cfg.Storage.FilesDir)
}

// NewBotAPI returns nil when no token is configured; the HTTP surface
// still works without Telegram, it just cannot post or poll.
func NewBotAPI(cfg *config.Config) (*tgbotapi.BotAPI, error) {
	if cfg.Telegram.BotToken == "" {
		log.Warn().Msg("BOT_TOKEN is empty, Telegram features disabled")
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bot", api.Self.UserName).Msg("Telegram bot authorized")
	return api, nil
}

func NewNotifier(api *tgbotapi.BotAPI) notify.Notifier {
	if api == nil {
		return notify.NopNotifier{}
	}
	return notify.NewTelegramNotifier(api)
}

func NewBot(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	classes repository.ClassRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	snapshots service.SnapshotService,
) *bot.Bot {
	if api == nil {
		return nil
	}
	return bot.New(api, cfg.Telegram.WebAppURL, classes, assignments, submissions, snapshots)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Telegram-Init-Data", "X-Dev-User-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	validator *auth.Validator,
	teacherCtrl *teacherctrl.TeacherController,
	studentCtrl *studentctrl.StudentController,
) {
	router.GET("/api/health", controller.Health)

	api := router.Group("/api")
	api.Use(auth.Middleware(validator, cfg.Telegram.DevSkipInitDataValidation))
	teacherCtrl.RegisterRoutes(api)
	studentCtrl.RegisterRoutes(api)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartBot runs the long-polling loop for the lifetime of the app. A
// nil bot means no token was configured.
func StartBot(lc fx.Lifecycle, b *bot.Bot) {
	if b == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				b.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
