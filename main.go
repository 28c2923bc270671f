package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eclatdining/eclat-api/handlers"
	"github.com/eclatdining/eclat-api/internal/admins"
	"github.com/eclatdining/eclat-api/internal/config"
	"github.com/eclatdining/eclat-api/internal/database"
	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/sessions"
	"github.com/eclatdining/eclat-api/internal/storage"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/internal/tokens"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/eclatdining/eclat-api/pkg/metrics"
	"github.com/eclatdining/eclat-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: mongo=%v redis=%v jwt_secret_set=%v minio=%v",
		cfg.Database.URL != "", cfg.Redis.Host != "", cfg.AdminAuthEnabled(), cfg.Media.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := newRouter(cfg.Server)
	if err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}

	ctx := context.Background()

	// Redis backs the content cache and the distributed rate limiter; both
	// are optional.
	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	docs := openStore(ctx, cfg)
	if rdb != nil {
		docs = store.NewCached(docs, rdb, cfg.Redis.CacheTTL, schema.PublicCollections()...)
		logger.Infof("content cache enabled (ttl=%s)", cfg.Redis.CacheTTL)
	}

	var media handlers.MediaUploader
	if cfg.Media.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(ctx, cfg.Media)
		if err != nil {
			logger.Warnf("media storage unavailable, gallery uploads disabled: %v", err)
		} else {
			media = ms
			logger.Infof("media storage: %s/%s", cfg.Media.Endpoint, cfg.Media.Bucket)
		}
	}

	var intakeGuards []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			intakeGuards = append(intakeGuards, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			intakeGuards = append(intakeGuards, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiting intake routes: rps=%v burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.UseRedis && rdb != nil)
	}

	var readers, editors []gin.HandlerFunc
	if cfg.AdminAuthEnabled() {
		revocations := sessions.NewRevocations(rdb)
		auth := middleware.AuthMiddleware(revocations.Wrap(tokens.NewVerifier(cfg.JWT.Secret)))
		readers = []gin.HandlerFunc{auth}
		editors = []gin.HandlerFunc{auth, middleware.RequireRole(schema.RoleAdmin, schema.RoleEditor)}
		handlers.NewSessionHandler(admins.NewService(docs), revocations, cfg.JWT.Secret, cfg.JWT.AccessTokenTTL).Register(r, auth)
		if rdb == nil {
			logger.Warnf("Redis not configured: admin logout cannot revoke tokens")
		}
	} else {
		logger.Warnf("JWT_SECRET not set: /admin routes are open to anyone")
	}

	handlers.NewDiagnosticsHandler(docs, cfg.Database).Register(r)
	handlers.NewContentHandler(docs).Register(r)
	handlers.NewIntakeHandler(docs).Register(r, intakeGuards...)
	handlers.NewAdminHandler(docs, media).Register(r, readers, editors)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("Starting Éclat Dining API on %s (store=%s)", srv.Addr, docs.DatabaseName())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}

// newRouter builds the engine with the shared middleware. Forwarding headers
// are only honoured from the configured proxies; otherwise ClientIP is the
// peer address.
func newRouter(cfg config.ServerConfig) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(middleware.CORSMiddleware(), middleware.RequestLogger(), gin.Recovery())
	return r, nil
}

// openStore picks the document store. A Mongo store that cannot connect is
// still returned: reads answer empty and writes fail with 503.
func openStore(ctx context.Context, cfg *config.Config) store.Store {
	if strings.EqualFold(cfg.Database.Driver, "memory") {
		logger.Warnf("STORE_DRIVER=memory: records are kept in process memory only")
		return store.NewMemory(cfg.Database.Name)
	}
	if cfg.Database.URL == "" || cfg.Database.Name == "" {
		logger.Warnf("DATABASE_URL or DATABASE_NAME not set: running without a database")
		return store.NewMongo(nil)
	}
	client, err := database.ConnectWithRetry(ctx, cfg.Database.URL, cfg.Database.Timeout, 5, time.Second)
	if err != nil {
		logger.Warnf("could not connect to MongoDB: %v", err)
		return store.NewMongo(nil)
	}
	logger.Infof("connected to MongoDB database %q", cfg.Database.Name)
	return store.NewMongo(client.Database(cfg.Database.Name))
}
