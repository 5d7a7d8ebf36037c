package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/cxm/api"
	"github.com/frahmantamala/cxm/internal"
	"github.com/frahmantamala/cxm/internal/auth"
	authPostgres "github.com/frahmantamala/cxm/internal/auth/postgres"
	"github.com/frahmantamala/cxm/internal/chat"
	chatPostgres "github.com/frahmantamala/cxm/internal/chat/postgres"
	"github.com/frahmantamala/cxm/internal/core/events"
	"github.com/frahmantamala/cxm/internal/customer"
	customerPostgres "github.com/frahmantamala/cxm/internal/customer/postgres"
	"github.com/frahmantamala/cxm/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/cxm/internal/dashboard/postgres"
	"github.com/frahmantamala/cxm/internal/deal"
	dealPostgres "github.com/frahmantamala/cxm/internal/deal/postgres"
	"github.com/frahmantamala/cxm/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/cxm/internal/feedback/postgres"
	"github.com/frahmantamala/cxm/internal/interaction"
	interactionPostgres "github.com/frahmantamala/cxm/internal/interaction/postgres"
	"github.com/frahmantamala/cxm/internal/product"
	productPostgres "github.com/frahmantamala/cxm/internal/product/postgres"
	"github.com/frahmantamala/cxm/internal/ticket"
	ticketPostgres "github.com/frahmantamala/cxm/internal/ticket/postgres"
	"github.com/frahmantamala/cxm/internal/transport/middleware"
	"github.com/frahmantamala/cxm/internal/transport/rest"
	"github.com/frahmantamala/cxm/internal/transport/swagger"
	"github.com/frahmantamala/cxm/internal/user"
	userPostgres "github.com/frahmantamala/cxm/internal/user/postgres"
	"github.com/frahmantamala/cxm/internal/web"
	"github.com/frahmantamala/cxm/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the API, the dashboard pages and the chat stream`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Gorm       *gorm.DB
	Router     *chi.Mux
	EventBus   *events.EventBus
	Gatekeeper *middleware.Gatekeeper
	Handlers   rest.Handlers
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Server.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config.Server
	rest.RegisterAllRoutes(deps.Router, rest.RouterConfig{
		Env:              cfg.Env,
		RequestTimeout:   cfg.RequestTimeout,
		RateLimitPerMin:  cfg.RateLimitPerMin,
		LoginLimitPerMin: cfg.LoginLimitPerMin,
	}, deps.Gatekeeper, deps.Handlers, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Server.Env,
		logger.WithLevel(config.Logging.Level),
		logger.WithFormat(config.Logging.Format))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	if _, err := swagger.Load(context.Background(), api.OpenAPI); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	pages, err := web.NewEngine()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	authRepo := authPostgres.NewRepository(gormDB)
	perms := auth.NewEvaluator(authRepo, lg)
	authService := auth.NewService(authRepo,
		auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration),
		config.Security.BCryptCost)

	customerService := customer.NewService(customerPostgres.NewCustomerRepository(db), perms, lg)
	dealService := deal.NewService(dealPostgres.NewDealRepository(db), perms, lg)
	ticketService := ticket.NewService(ticketPostgres.NewTicketRepository(db), perms, eventBus, lg)
	feedbackService := feedback.NewService(feedbackPostgres.NewFeedbackRepository(db), perms, lg)
	interactionService := interaction.NewService(interactionPostgres.NewInteractionRepository(db), perms, lg)
	productService := product.NewService(productPostgres.NewProductRepository(gormDB), perms, lg)
	userService := user.NewService(userPostgres.NewUserRepository(gormDB), perms, config.Security.BCryptCost, lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewStatsRepository(db), perms, lg)
	chatService := chat.NewService(chatPostgres.NewChatRepository(db), eventBus, lg)

	interaction.NewEventHandler(interactionService, lg).Register(eventBus)
	hub := chat.NewHub(lg)
	hub.Register(eventBus)

	gatekeeper := middleware.NewGatekeeper(config.Gatekeeper, config.Security.CookieName, auth.NewCodec(), lg)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Gorm:       gormDB,
		Router:     chi.NewRouter(),
		EventBus:   eventBus,
		Gatekeeper: gatekeeper,
		Logger:     lg,
		Handlers: rest.Handlers{
			Health:      rest.NewHealthHandler(db.DB),
			Auth:        auth.NewHandler(authService, auth.CookieConfig{Secure: config.Security.CookieSecure}),
			Customer:    customer.NewHandler(customerService),
			Deal:        deal.NewHandler(dealService),
			Ticket:      ticket.NewHandler(ticketService),
			Feedback:    feedback.NewHandler(feedbackService),
			Interaction: interaction.NewHandler(interactionService),
			Product:     product.NewHandler(productService),
			Chat:        chat.NewHandler(chatService, hub, originPatterns(config.Server.AllowedOrigins)),
			User:        user.NewHandler(userService),
			Dashboard:   dashboard.NewHandler(dashboardService),
			Pages:       web.NewHandler(pages),
			OpenAPI:     api.OpenAPI,
		},
	}, nil
}

// originPatterns turns configured origins into the host patterns the websocket accept check expects.
func originPatterns(allowed string) []string {
	var patterns []string
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			origin = u.Host
		}
		patterns = append(patterns, origin)
	}
	return patterns
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm so both layers use one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
}
