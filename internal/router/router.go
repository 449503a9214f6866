package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/repositories/memory"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/firebase"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Backend is an opened set of repositories and the func that releases them.
type Backend struct {
	Deps  services.Deps
	DB    *config.DB
	Close func()
}

// OpenBackend connects the repositories selected by cfg.StoreBackend.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store := memory.New()
		logger.Log.Warn("Using the in-memory store; data is lost on restart")
		return &Backend{
			Deps: services.Deps{
				Users:             store.Users(),
				Videos:            store.Videos(),
				Comments:          store.Comments(),
				Tweets:            store.Tweets(),
				Playlists:         store.Playlists(),
				Relations:         store.Relations(),
				WatchHistoryLimit: cfg.WatchHistoryLimit,
			},
			Close: func() {},
		}, nil
	case config.BackendMongo:
		db, err := config.InitDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Deps: services.Deps{
				Users:             repositories.NewMongoUserRepository(db.Database),
				Videos:            repositories.NewMongoVideoRepository(db.Database),
				Comments:          repositories.NewMongoCommentRepository(db.Database),
				Tweets:            repositories.NewMongoTweetRepository(db.Database),
				Playlists:         repositories.NewMongoPlaylistRepository(db.Database),
				Relations:         repositories.NewPostgresRelationRepository(db.Postgres),
				WatchHistoryLimit: cfg.WatchHistoryLimit,
			},
			DB:    db,
			Close: db.CloseDB,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// Migrate creates the MongoDB indexes and the relation table.
func Migrate(ctx context.Context, db *config.DB) error {
	if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	if err := repositories.NewPostgresRelationRepository(db.Postgres).AutoMigrate(); err != nil {
		return fmt.Errorf("relation table: %w", err)
	}
	logger.Log.Info("Migrations completed")
	return nil
}

// NewVerifier picks Firebase ID-token verification when credentials are configured
// and HS256 JWT verification otherwise.
func NewVerifier(ctx context.Context, cfg *config.Config, users repositories.UserRepository) (middleware.TokenVerifier, error) {
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.NewAuthClient(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
		})
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Authenticating with Firebase ID tokens")
		return middleware.NewFirebaseVerifier(client, users), nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("either JWT_SECRET or FIREBASE_CREDENTIALS_PATH must be set")
	}
	logger.Log.Info("Authenticating with HS256 JWTs")
	return middleware.NewJWTVerifier(cfg.JWTSecret), nil
}

// SetupRoutes configures all application routes on e
func SetupRoutes(e *echo.Echo, svc *services.Services, verifier middleware.TokenVerifier) {
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1", middleware.Authenticate(verifier))

	handlers.NewFeedHandler(svc.Feeds).RegisterFeedRoutes(api)
	handlers.NewVideoHandler(svc.Videos).RegisterVideoRoutes(api)
	handlers.NewCommentHandler(svc.Comments).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(svc.Relations).RegisterLikeRoutes(api)
	handlers.NewSubscriptionHandler(svc.Relations, svc.Feeds).RegisterSubscriptionRoutes(api)
	handlers.NewTweetHandler(svc.Tweets).RegisterTweetRoutes(api)
	handlers.NewPlaylistHandler(svc.Playlists).RegisterPlaylistRoutes(api)
	handlers.NewHistoryHandler(svc.History).RegisterHistoryRoutes(api)
	handlers.NewUserHandler(svc.Channels).RegisterProfileRoutes(api)

	logger.Log.Debug("Routes configured", zap.Int("count", len(e.Routes())))
}
