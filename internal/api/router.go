package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/socialpulse/analytics-api/docs"
	"github.com/socialpulse/analytics-api/internal/api/handler"
	"github.com/socialpulse/analytics-api/internal/api/middleware"
	"github.com/socialpulse/analytics-api/internal/core/service"
	mongodb "github.com/socialpulse/analytics-api/internal/infrastructure/db/mongo"
	redisdb "github.com/socialpulse/analytics-api/internal/infrastructure/db/redis"
	"github.com/socialpulse/analytics-api/internal/infrastructure/queue"
)

// RouterConfig carries the tunables the router needs beyond its connections.
type RouterConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	IngestWorkers int
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the ingest dispatcher, which the caller must Start.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("socialpulse"))

	// --- Repositories ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	companyRepo := mongodb.NewCompanyRepository(db)
	accountRepo := mongodb.NewAccountRepository(db)
	metricRepo := mongodb.NewMetricRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	modelRepo := mongodb.NewModelRepository(db)

	// --- Services ---
	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(principalRepo, companyRepo, codec, log)
	accessService := service.NewAccessService(accountRepo, redisdb.NewOwnershipCache(rdb), log)
	contentService := service.NewContentService(accountRepo, metricRepo, postRepo, log)
	ingestService := service.NewIngestService(accountRepo, metricRepo, redisdb.NewDedupChecker(rdb), log)
	regressionService := service.NewRegressionService(metricRepo, modelRepo, log)
	clusteringService := service.NewClusteringService(postRepo, modelRepo, log)

	dispatcher := queue.NewDispatcher(cfg.IngestWorkers, ingestService, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, accessService)
	accountHandler := handler.NewAccountHandler(accessService, contentService)
	ingestHandler := handler.NewIngestHandler(dispatcher, accessService)
	regressionHandler := handler.NewRegressionHandler(regressionService)
	clusteringHandler := handler.NewClusteringHandler(clusteringService)

	// --- Request gate stages ---
	authenticate := middleware.Authenticate(authService)
	accountAccess := middleware.AccountAccess(accessService)
	read := middleware.RequireOperation(middleware.OpRead)
	train := middleware.RequireOperation(middleware.OpTrain)
	ingest := middleware.RequireOperation(middleware.OpIngest)
	manage := middleware.RequireOperation(middleware.OpManage)

	// --- Auth surface ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register, authenticate, manage)
	auth.PATCH("/users/:username/active", authHandler.SetActive, authenticate, manage)
	auth.GET("/me", authHandler.Me, authenticate)
	auth.GET("/accounts", authHandler.Accounts, authenticate)

	// --- Account-scoped data (stage A + B) ---
	v1 := e.Group("/v1", authenticate)
	v1.GET("/accounts", accountHandler.List, read)

	accounts := v1.Group("/accounts/:account", accountAccess)
	accounts.GET("/posts", accountHandler.Posts, read)
	accounts.POST("/posts", accountHandler.CreatePost, ingest)
	accounts.GET("/metrics", accountHandler.Metrics, read)

	// --- Ingestion ---
	v1.POST("/ingest/metrics", ingestHandler.ReceiveBatch, ingest)

	// --- Regression models ---
	regression := v1.Group("/regression/:account", accountAccess)
	regression.POST("/train", regressionHandler.Train, train)
	regression.GET("/predict", regressionHandler.Predict, read)
	regression.POST("/predict-batch", regressionHandler.PredictBatch, read)
	regression.GET("/model", regressionHandler.Model, read)
	regression.GET("/compare", regressionHandler.Compare, read)
	regression.GET("/history", regressionHandler.History, read)
	regression.DELETE("/model", regressionHandler.Delete, train)

	// --- Clustering models ---
	clustering := v1.Group("/clustering/:account", accountAccess)
	clustering.POST("/train", clusteringHandler.Train, train)
	clustering.POST("/predict", clusteringHandler.Predict, read)
	clustering.GET("/clusters", clusteringHandler.Clusters, read)
	clustering.GET("/model", clusteringHandler.Model, read)
	clustering.GET("/compare", clusteringHandler.Compare, read)
	clustering.GET("/history", clusteringHandler.History, read)
	clustering.DELETE("/model", clusteringHandler.Delete, train)

	// --- Ops surface (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, dispatcher
}
