package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/cache"
	"contentflow/infrastructure/clients/social"
	"contentflow/infrastructure/configuration"
	"contentflow/infrastructure/logger"
	"contentflow/infrastructure/persistence"
	"contentflow/infrastructure/pubsub"
	httpHandler "contentflow/interfaces/http"
	"contentflow/server"
	"contentflow/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, vendor, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithField("vendor", vendor).Info("Database connected.")

	var (
		accountRepo repository.ISocialAccount
		postRepo    repository.IPost
		logRepo     repository.IPublishLog
		userRepo    repository.IUser
	)
	if vendor == "mssql" {
		if err := persistence.EnsurePublishingSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring publishing schema")
		}
		accountRepo = persistence.NewSocialAccountRepositoryMSSQL(db)
		postRepo = persistence.NewPostRepositoryMSSQL(db)
		logRepo = persistence.NewPublishLogRepositoryMSSQL(db)
		userRepo = persistence.NewUserRepositoryMSSQL(db)
	} else {
		if err := persistence.EnsurePublishingSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring publishing schema")
		}
		accountRepo = persistence.NewSocialAccountRepository(db)
		postRepo = persistence.NewPostRepository(db)
		logRepo = persistence.NewPublishLogRepository(db)
		userRepo = persistence.NewUserRepository(db)
	}

	// Optional Mongo audit mirror
	var auditRepo repository.IPublishAudit
	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Mongo.Host,
		configuration.C.Mongo.Port,
		configuration.C.Mongo.User,
		configuration.C.Mongo.Password,
		configuration.C.Mongo.Name,
	)
	if err != nil || configuration.C.Mongo.Host == "" {
		logger.GetLogger().Warn("MongoDB not available - continuing without the publish audit mirror")
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without the publish audit mirror")
	} else {
		name := configuration.C.Mongo.Name
		if name == "" {
			name = "contentflow"
		}
		auditRepo = persistence.NewPublishAuditMongo(mongoDb, name)
		logger.GetLogger().Info("MongoDB connected successfully")
	}

	registry := social.NewRegistry(configuration.C.OAuth)
	oauthManager := social.NewOAuthManager(registry)

	// Optional Redis-backed posting ceilings
	var limiter cache.IRateLimiter
	if configuration.C.RedisClient.Host != "" {
		redisClient, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
			configuration.C.RedisClient.Username,
			configuration.C.RedisClient.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - posting ceilings disabled")
		} else {
			limits := map[model.Platform]cache.Limit{}
			for _, p := range registry.Platforms() {
				cfg := registry.Config(p)
				limits[p] = cache.Limit{PerHour: cfg.PostsPerHour, PerDay: cfg.PostsPerDay}
			}
			limiter = cache.NewRateLimiter(redisClient, limits)
			logger.GetLogger().Info("Redis client initialized successfully.")
		}
	}

	// Optional Pub/Sub lifecycle events
	var events pubsub.IPublishEvents
	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without post.published events")
	} else {
		events = pubsub.NewPublishEvents(pubSubClient, configuration.C.Pubsub.Topic)
	}

	var allowedPlatforms []model.Platform
	for _, raw := range configuration.C.Publish.Platforms {
		p, err := model.ParsePlatform(raw)
		if err != nil {
			logger.GetLogger().WithField("platform", raw).Warn("Ignoring unknown platform in publish allow-list")
			continue
		}
		allowedPlatforms = append(allowedPlatforms, p)
	}

	accountUC := usecase.NewAccountUsecase(accountRepo, oauthManager)
	postUC := usecase.NewPostUsecase(postRepo)
	publishUC := usecase.NewPublishUsecase(
		postRepo,
		accountRepo,
		accountUC,
		logRepo,
		auditRepo,
		registry,
		limiter,
		events,
		allowedPlatforms,
		time.Duration(configuration.C.Publish.AdapterTimeout)*time.Second,
	)
	userUC := usecase.NewUserUsecase(userRepo)

	userHandler := httpHandler.NewUserHandler(userUC)
	oauthHandler := httpHandler.NewOAuthHandler(oauthManager, accountUC)
	accountHandler := httpHandler.NewAccountHandler(accountUC)
	postHandler := httpHandler.NewPostHandler(postUC)
	publishHandler := httpHandler.NewPublishHandler(publishUC)

	router := server.InitiateRouter(userHandler, oauthHandler, accountHandler, postHandler, publishHandler, userRepo)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the primary store. PostgreSQL by default; SQL
// Server when running in production or when DB_VENDOR=mssql is set.
func InitiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	if v := os.Getenv("DB_VENDOR"); v == "mssql" || env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, "", err
		}
		return db, "mssql", nil
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, "", err
	}
	return db, "psql", nil
}
