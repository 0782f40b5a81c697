package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"admin-experimentai/cmd/app/internal/controller"
	"admin-experimentai/internal/cache"
	"admin-experimentai/internal/config"
	"admin-experimentai/internal/db"
	"admin-experimentai/internal/identity"
	"admin-experimentai/internal/repository"
	"admin-experimentai/internal/service"
	"admin-experimentai/pkg/middleware"
	"admin-experimentai/utilities"
)

func main() {
	configPath := flag.String("config", "config.xml", "path to the XML configuration")
	seed := flag.Bool("seed", false, "insert default statuses and categories, then exit")
	flag.Parse()

	printStartUpBanner()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.CheckAuth(); err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}
	if err := utilities.SetupLogging(cfg.Logging); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	if cfg.Context.TimeZone != "" {
		if loc, err := time.LoadLocation(cfg.Context.TimeZone); err == nil {
			time.Local = loc
		} else {
			utilities.Warn("unknown time zone %q: %v", cfg.Context.TimeZone, err)
		}
	}

	conn, err := db.InitDBFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if cfg.DB.Initialize {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}
	if *seed {
		if err := seedDefaults(context.Background(), conn); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		utilities.Info("Database seeding completed")
		return
	}

	listCache := cache.NewNoopListCache()
	if cfg.Cache.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer rdb.Close()
		listCache = cache.NewRedisListCache(rdb, cfg.Cache.TTLDuration())
		utilities.Info("List cache backed by redis at %s", cfg.Cache.Addr)
	}

	bus := utilities.GlobalEventBus
	subscribeAuditLog(bus)

	// Repositories.
	executor := db.NewQueryExecutor(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	questionRepo := repository.NewQuestionRepository(conn)
	optionRepo := repository.NewOptionRepository(conn)
	catalogRepo := repository.NewCatalogRepository(conn)
	feedbackRepo := repository.NewFeedbackRepository(conn)
	brandRepo := repository.NewBrandRepository(conn)

	// Services.
	provider := identity.NewGoTrueClient(cfg.Authentication.ProviderURL, cfg.Authentication.AnonKey,
		time.Duration(cfg.Authentication.ProviderTimeout)*time.Second)
	feedbackService := service.NewFeedbackService(executor, feedbackRepo, questionRepo, optionRepo, catalogRepo, bus, cfg.Pagination.PageSize)
	services := controller.Services{
		Auth:       service.NewAuthService(provider),
		Categories: service.NewCategoryService(executor, categoryRepo, listCache),
		Questions:  service.NewQuestionService(executor, questionRepo, optionRepo, categoryRepo, catalogRepo, feedbackRepo, bus),
		Options:    service.NewOptionService(executor, questionRepo, optionRepo),
		Feedback:   feedbackService,
		Reports:    service.NewReportService(feedbackService),
		Brands:     service.NewBrandService(executor, brandRepo, listCache, bus),
		Catalog:    service.NewCatalogService(executor, catalogRepo),
		Health:     executor,
	}

	gin.DefaultWriter = utilities.InfoWriter()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	r.Use(middleware.TimeoutMiddleware(cfg.Context.RequestTimeoutDuration()))
	r.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))

	var basicAuth *utilities.BasicAuthenticator
	if cfg.Context.EnableBasicAuth {
		basicAuth = utilities.NewBasicAuthenticator(cfg.BasicAuth.Users)
	}
	authMiddleware := utilities.AuthMiddleware(cfg.TokenSecret(), basicAuth)
	controller.RegisterRoutes(r, cfg.Context.Path, authMiddleware, services)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utilities.Info("Listening on %s%s", srv.Addr, cfg.Context.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	utilities.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Context.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utilities.Error("graceful shutdown failed: %v", err)
	}
	bus.Wait()
}

// subscribeAuditLog writes domain events to the info log.
func subscribeAuditLog(bus *utilities.EventBus) {
	bus.Subscribe(utilities.EventBrandMoved, func(data interface{}) {
		if move, ok := data.(service.BrandMove); ok {
			by := "unknown"
			if move.MovedBy != nil {
				by = *move.MovedBy
			}
			utilities.Info("brand %s moved from %s to %s by %s", move.BrandID, move.FromStatusID, move.ToStatusID, by)
		}
	})
	for _, event := range []string{
		utilities.EventQuestionReordered,
		utilities.EventQuestionDeleted,
		utilities.EventSessionCompleted,
		utilities.EventSessionAbandoned,
	} {
		bus.Subscribe(event, func(data interface{}) {
			utilities.Info("%s: %v", event, data)
		})
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("EXPERIMENTAI", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("EXPERIMENTAI ADMIN API (v%s)\n\n", "1.0.0")
}
