package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/fieldsurvey/config"
	"github.com/lshigami/fieldsurvey/database"
	_ "github.com/lshigami/fieldsurvey/docs" // Swagger docs
	"github.com/lshigami/fieldsurvey/internal/cache"
	"github.com/lshigami/fieldsurvey/internal/controller"
	adminctrl "github.com/lshigami/fieldsurvey/internal/controller/admin"
	respondentctrl "github.com/lshigami/fieldsurvey/internal/controller/respondent"
	"github.com/lshigami/fieldsurvey/internal/logger"
	"github.com/lshigami/fieldsurvey/internal/metrics"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/repository"
	"github.com/lshigami/fieldsurvey/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Field Survey API
// @version 1.0
// @description Survey delivery, answer capture, session tracking, results and exports for field campaigns.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			metrics.NewCollector,
			NewRedisClient,
			cache.NewResultsCache,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewSurveyRepository,
			repository.NewQuestionRepository,
			repository.NewResponseRepository,
			repository.NewSessionRepository,
		),

		// Services Layer
		fx.Provide(
			NewTextGenerator,
			service.NewSurveyService,
			service.NewResponseService,
			service.NewSessionService,
			service.NewResultsService,
			service.NewExportService,
			service.NewInsightService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminController,
			respondentctrl.NewRespondentController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Application stop failed")
	}
}

// NewRedisClient wraps cache.NewRedisClient with lifecycle hooks. It yields
// nil when REDIS_ADDR is unset.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	client := cache.NewRedisClient(cfg)
	if client == nil {
		log.Info().Msg("REDIS_ADDR not set, results are not cached")
		return nil
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed, results cache will miss until it recovers")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// NewTextGenerator returns a nil interface when Gemini is not configured.
func NewTextGenerator(lc fx.Lifecycle, cfg *config.Config) (service.TextGenerator, error) {
	gen, err := service.NewGeminiGenerator(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return gen.Close()
		},
	})
	return gen, nil
}

func NewGinEngine(cfg *config.Config, mc *metrics.Collector) *gin.Engine {
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(controller.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("request_id", param.Request.Header.Get(controller.RequestIDHeader)).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(mc.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", controller.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", controller.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", controller.Health)
	r.GET("/metrics", gin.WrapH(mc.Handler()))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminController,
	respondentCtrl *respondentctrl.RespondentController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		surveys := adminAPIGroup.Group("/surveys/:survey_id")
		surveys.GET("/results", adminCtrl.GetResults)
		surveys.GET("/export", adminCtrl.Export)
		surveys.GET("/questions/:question_id/insights", adminCtrl.GetInsights)
	}

	respondentAPIGroup := router.Group("/api/v1")
	{
		respondentAPIGroup.GET("/surveys/:survey_id", respondentCtrl.GetSurvey)
		respondentAPIGroup.GET("/surveys/:survey_id/progress", respondentCtrl.GetProgress)
		respondentAPIGroup.POST("/responses", respondentCtrl.UpsertResponse)
		respondentAPIGroup.POST("/sessions/complete", respondentCtrl.CompleteSession)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Field survey API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func AutoMigrateDB(db *gorm.DB, cfg *config.Config) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Survey{},
		&model.Question{},
		&model.Response{},
		&model.SurveySession{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")

	if cfg.Survey.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			log.Error().Err(err).Msg("Demo seed failed")
			return err
		}
	}
	return nil
}
