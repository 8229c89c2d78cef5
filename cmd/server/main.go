package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/annotation"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/store"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/vcs"
	"github.com/arturoeanton/go-commit-annotator/internal/handler"
	"github.com/arturoeanton/go-commit-annotator/internal/mcp"
	"github.com/arturoeanton/go-commit-annotator/internal/middleware"
	"github.com/arturoeanton/go-commit-annotator/internal/service"
	"github.com/arturoeanton/go-commit-annotator/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger())

	slog.Info("🚀 Starting Commit Annotator",
		"port", cfg.Port,
		"github_api", cfg.GitHubAPIURL,
		"audit_enabled", cfg.AuditEnabled(),
		"mcp_enabled", cfg.MCPEnabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database (optional audit trail) ──────────────────────────────────
	var pgStore *store.PostgresStore
	if cfg.AuditEnabled() {
		var err error
		pgStore, err = store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	github := vcs.NewGitHubClient(cfg.GitHubAPIURL, cfg.GitHubTimeout)

	filter, err := annotation.NewFilter(cfg.AnnotateExclude...)
	if err != nil {
		slog.Error("invalid ANNOTATE_EXCLUDE", "error", err)
		os.Exit(1)
	}

	sessions := store.NewSessionStore()
	go sessions.Run(ctx, cfg.SessionReapInterval)

	// ── Services ─────────────────────────────────────────────────────────
	annotator := service.NewAnnotator(annotation.NewEngine(),
		service.WithChangedLinesOnly(cfg.AnnotateChangedOnly),
	)

	var opts []service.CommentServiceOption
	if pgStore != nil {
		opts = append(opts, service.WithPublishRecorder(pgStore))
	}
	commentService := service.NewCommentService(github, annotator, filter, sessions, opts...)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.GitHubTimeout + 30*time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-GitHub-Token"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	if pgStore != nil {
		app.Use(middleware.AuditMiddleware(pgStore, "/api/v1/health"))
	}

	// ── Public Routes ────────────────────────────────────────────────────
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"app":      cfg.AppName,
			"version":  "1.0.0",
			"sessions": commentService.LiveSessions(),
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.GitHubToken())

	commentHandler := handler.NewCommentHandler(commentService)
	commentHandler.Register(api)

	if pgStore != nil {
		auditHandler := handler.NewAuditHandler(pgStore)
		auditHandler.Register(api)
	}

	// ── MCP Server (separate port) ───────────────────────────────────────
	if cfg.MCPEnabled {
		var mcpOpts []mcp.Option
		if pgStore != nil {
			mcpOpts = append(mcpOpts, mcp.WithAuditWriter(pgStore))
		}
		mcpServer := mcp.NewServer(commentService, cfg.MCPPort, mcpOpts...)
		go func() {
			if err := mcpServer.Start(); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
