package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushub/api/internal/config"
	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/handler"
	"github.com/campushub/api/internal/jobs"
	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/repository"
	"github.com/campushub/api/internal/service"
	"github.com/campushub/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	mergeRepo := repository.NewMergeRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)

	// Initialize event hub for real-time updates
	eventHub := service.NewEventHub()
	defer eventHub.Close()

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})

	mirrorService := service.NewMirrorService(clubRepo, calendarRepo, meetingRepo, logger)

	clubService := service.NewClubService(clubRepo, membershipRepo, calendarRepo, documentRepo, mirrorService, eventHub)
	mergeService := service.NewMergeService(mergeRepo, clubRepo, membershipRepo, mirrorService, eventHub)
	calendarService := service.NewCalendarService(calendarRepo, meetingRepo, clubRepo, membershipRepo, mirrorService, eventHub)
	documentService := service.NewDocumentService(documentRepo, clubRepo, membershipRepo)
	networkService := service.NewNetworkService(connectionRepo, userRepo)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100, // 100 requests per minute
		Window: time.Minute,
		Burst:  20, // Allow bursts up to 20
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Sweep abandoned merge proposals in the background
	mergeSweeper := jobs.NewMergeSweeper(mergeService, cfg.Jobs.MergeSweepInterval, cfg.Jobs.MergePendingMaxAge)
	mergeSweeper.Start()
	defer mergeSweeper.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	clubHandler := handler.NewClubHandler(clubService)
	mergeHandler := handler.NewMergeHandler(mergeService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	documentHandler := handler.NewDocumentHandler(documentService)
	networkHandler := handler.NewNetworkHandler(networkService)
	eventsHandler := handler.NewEventsHandler(eventHub)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	// Auth endpoints (protected)
	authMiddleware := middleware.Auth(jwtService)
	clubAccess := middleware.ClubAccess(clubService)
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.UpdateMe)))
	mux.Handle("POST /v1/auth/password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword)))

	// Club endpoints
	mux.Handle("GET /v1/clubs", authMiddleware(http.HandlerFunc(clubHandler.List)))
	mux.Handle("POST /v1/clubs", authMiddleware(http.HandlerFunc(clubHandler.Create)))
	mux.Handle("GET /v1/clubs/{clubId}", authMiddleware(http.HandlerFunc(clubHandler.Get)))
	mux.Handle("PATCH /v1/clubs/{clubId}", authMiddleware(http.HandlerFunc(clubHandler.Update)))
	mux.Handle("DELETE /v1/clubs/{clubId}", authMiddleware(http.HandlerFunc(clubHandler.Delete)))
	mux.Handle("POST /v1/clubs/{clubId}/join", authMiddleware(http.HandlerFunc(clubHandler.Join)))
	mux.Handle("POST /v1/clubs/{clubId}/leave", authMiddleware(http.HandlerFunc(clubHandler.Leave)))
	mux.Handle("GET /v1/clubs/{clubId}/members", authMiddleware(http.HandlerFunc(clubHandler.GetMembers)))
	mux.Handle("PATCH /v1/clubs/{clubId}/members/{userId}/role", authMiddleware(http.HandlerFunc(clubHandler.UpdateMemberRole)))
	mux.Handle("DELETE /v1/clubs/{clubId}/members/{userId}", authMiddleware(http.HandlerFunc(clubHandler.RemoveMember)))

	// Merge endpoints
	mux.Handle("POST /v1/clubs/{clubId}/merge", authMiddleware(http.HandlerFunc(mergeHandler.Propose)))
	mux.Handle("POST /v1/clubs/{clubId}/merge/respond", authMiddleware(http.HandlerFunc(mergeHandler.Respond)))
	mux.Handle("DELETE /v1/clubs/{clubId}/merge", authMiddleware(http.HandlerFunc(mergeHandler.Withdraw)))
	mux.Handle("GET /v1/clubs/{clubId}/merge", authMiddleware(http.HandlerFunc(mergeHandler.Status)))

	// SSE events endpoint (club members only)
	mux.Handle("GET /v1/clubs/{clubId}/events", authMiddleware(clubAccess(http.HandlerFunc(eventsHandler.Stream))))

	// Calendar endpoints
	mux.Handle("GET /v1/calendars", authMiddleware(http.HandlerFunc(calendarHandler.ListMyCalendars)))
	mux.Handle("POST /v1/calendars", authMiddleware(http.HandlerFunc(calendarHandler.CreateCalendar)))
	mux.Handle("GET /v1/calendars/{calendarId}", authMiddleware(http.HandlerFunc(calendarHandler.GetCalendar)))
	mux.Handle("PATCH /v1/calendars/{calendarId}", authMiddleware(http.HandlerFunc(calendarHandler.RenameCalendar)))
	mux.Handle("DELETE /v1/calendars/{calendarId}", authMiddleware(http.HandlerFunc(calendarHandler.DeleteCalendar)))
	mux.Handle("GET /v1/clubs/{clubId}/calendars", authMiddleware(http.HandlerFunc(calendarHandler.ListClubCalendars)))
	mux.Handle("GET /v1/calendars/{calendarId}/meetings", authMiddleware(http.HandlerFunc(calendarHandler.ListMeetings)))

	// Meeting endpoints
	mux.Handle("POST /v1/meetings", authMiddleware(http.HandlerFunc(calendarHandler.CreateMeeting)))
	mux.Handle("GET /v1/meetings/{meetingId}", authMiddleware(http.HandlerFunc(calendarHandler.GetMeeting)))
	mux.Handle("PATCH /v1/meetings/{meetingId}", authMiddleware(http.HandlerFunc(calendarHandler.UpdateMeeting)))
	mux.Handle("DELETE /v1/meetings/{meetingId}", authMiddleware(http.HandlerFunc(calendarHandler.DeleteMeeting)))

	// Document manager endpoints
	mux.Handle("GET /v1/document-managers", authMiddleware(http.HandlerFunc(documentHandler.ListMyManagers)))
	mux.Handle("POST /v1/document-managers", authMiddleware(http.HandlerFunc(documentHandler.CreateManager)))
	mux.Handle("GET /v1/document-managers/{managerId}", authMiddleware(http.HandlerFunc(documentHandler.GetManager)))
	mux.Handle("DELETE /v1/document-managers/{managerId}", authMiddleware(http.HandlerFunc(documentHandler.DeleteManager)))
	mux.Handle("GET /v1/clubs/{clubId}/document-managers", authMiddleware(http.HandlerFunc(documentHandler.ListClubManagers)))
	mux.Handle("GET /v1/document-managers/{managerId}/documents", authMiddleware(http.HandlerFunc(documentHandler.ListDocuments)))
	mux.Handle("POST /v1/documents", authMiddleware(http.HandlerFunc(documentHandler.AddDocument)))
	mux.Handle("DELETE /v1/documents/{documentId}", authMiddleware(http.HandlerFunc(documentHandler.RemoveDocument)))

	// Network endpoints
	mux.Handle("GET /v1/connections", authMiddleware(http.HandlerFunc(networkHandler.List)))
	mux.Handle("POST /v1/connections", authMiddleware(http.HandlerFunc(networkHandler.SendRequest)))
	mux.Handle("POST /v1/connections/{connectionId}/respond", authMiddleware(http.HandlerFunc(networkHandler.Respond)))
	mux.Handle("DELETE /v1/connections/{connectionId}", authMiddleware(http.HandlerFunc(networkHandler.Remove)))
	mux.Handle("GET /v1/network/profile", authMiddleware(http.HandlerFunc(networkHandler.GetMyProfile)))
	mux.Handle("PATCH /v1/network/profile", authMiddleware(http.HandlerFunc(networkHandler.UpdateProfile)))
	mux.Handle("GET /v1/network/suggestions", authMiddleware(http.HandlerFunc(networkHandler.GetSuggestions)))
	mux.Handle("GET /v1/users/{userId}/network-profile", authMiddleware(http.HandlerFunc(networkHandler.GetUserProfile)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
