package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/match"
	"resume-matcher/internal/mlmodel"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/storage/object"
	localstore "resume-matcher/internal/shared/storage/object/local"
	s3store "resume-matcher/internal/shared/storage/object/s3"
	"resume-matcher/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(ctx context.Context, cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	profiles, err := loadProfiles(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tracker := metrics.NewTracker()
	models := mlmodel.NewEngine(mlmodel.LoadArtifacts(cfg.ModelsDir), tracker)

	svc := analysis.NewService(profiles, models, tracker)
	handler := analysis.NewHandler(svc, store, tracker)

	telemetry.Info("server.ready", map[string]any{
		"companies_loaded": profiles.Len(),
		"models_loaded":    models.Loaded(),
		"object_store":     cfg.ObjectStoreType,
	})

	handler.RegisterRoutes(r.Group("/api/v1"))
	return r, nil
}

func newObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

// loadProfiles reads company profiles from Postgres when DATABASE_URL is set,
// otherwise from the JSON file. A failed database connection falls back to
// the file so the API still starts.
func loadProfiles(ctx context.Context, cfg config.Config) (*match.Profiles, error) {
	var store match.ProfileStore = &match.JSONStore{Path: cfg.ProfilesPath}

	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Error("profiles.db_unavailable", map[string]any{
				"fallback": cfg.ProfilesPath,
				"error":    err.Error(),
			})
		} else if err := db.RunMigrations(ctx, conn); err != nil {
			telemetry.Error("profiles.migrations_failed", map[string]any{
				"fallback": cfg.ProfilesPath,
				"error":    err.Error(),
			})
			conn.Close()
		} else {
			store = &match.PGStore{DB: conn}
		}
	}

	list, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return match.NewProfiles(list), nil
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
