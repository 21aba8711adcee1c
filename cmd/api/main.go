package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/linkup-social/linkup-backend/internal/config"
	"github.com/linkup-social/linkup-backend/internal/handler"
	"github.com/linkup-social/linkup-backend/internal/middleware"
	"github.com/linkup-social/linkup-backend/internal/migration"
	"github.com/linkup-social/linkup-backend/internal/repository"
	"github.com/linkup-social/linkup-backend/internal/routes"
	"github.com/linkup-social/linkup-backend/internal/service"
	"github.com/linkup-social/linkup-backend/internal/ws"
	"github.com/linkup-social/linkup-backend/pkg/jwt"
	pkglogger "github.com/linkup-social/linkup-backend/pkg/logger"
	pkgredis "github.com/linkup-social/linkup-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Realtime core
	presence := ws.NewMemoryRegistry()
	hub := ws.NewHub(presence, redisClient)
	go hub.Run()

	// Services
	friendService := service.NewFriendService(friendshipRepo, userRepo)
	chatService := service.NewChatService(messageRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, postRepo, hub)

	gateway := ws.NewGateway(hub, friendService, chatService)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService)
	friendHandler := handler.NewFriendHandler(friendService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wsHandler := handler.NewWSHandler(gateway, jwtManager, cfg.WS.AllowedOrigins)

	if env != "development" && env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     parseCORSOrigins(cfg.WS.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RateLimit.Enabled {
		rlCfg := middleware.DefaultRateLimitConfig()
		rlCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		router.Use(middleware.RateLimit(redisClient, rlCfg))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Setup(router, chatHandler, friendHandler, notificationHandler, wsHandler, jwtManager)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down")

	hub.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Forced shutdown: %v", err)
	}
}

// initDB opens the MySQL connection with sane pool settings. TranslateError
// lets repositories detect duplicate-key conflicts as gorm.ErrDuplicatedKey.
func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsnCfg := mysqldriver.NewConfig()
	dsnCfg.User = cfg.Database.User
	dsnCfg.Passwd = cfg.Database.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
	dsnCfg.DBName = cfg.Database.Name
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	dsnCfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := gorm.Open(mysql.Open(dsnCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// parseCORSOrigins converts the comma-separated origin list to a slice; an
// empty list falls back to the localhost development origin.
func parseCORSOrigins(origins string) []string {
	if origins == "" {
		return []string{"http://localhost:3000"}
	}
	var result []string
	for _, part := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
