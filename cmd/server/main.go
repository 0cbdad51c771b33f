package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/satkunas/sticker-factory/backend-go/internal/auth"
	"github.com/satkunas/sticker-factory/backend-go/internal/config"
	"github.com/satkunas/sticker-factory/backend-go/internal/db"
	"github.com/satkunas/sticker-factory/backend-go/internal/engine"
	"github.com/satkunas/sticker-factory/backend-go/internal/fonts"
	"github.com/satkunas/sticker-factory/backend-go/internal/icons"
	mw "github.com/satkunas/sticker-factory/backend-go/internal/middleware"
	"github.com/satkunas/sticker-factory/backend-go/internal/preview"
	"github.com/satkunas/sticker-factory/backend-go/internal/render"
	"github.com/satkunas/sticker-factory/backend-go/internal/store"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Bootstrap(ctx, pool); err != nil {
		slog.Error("bootstrap schema", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(pool, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	storeService := store.NewService(pool)
	storeHandler := store.NewHandler(storeService)

	fontCatalog := fonts.NewCatalog()
	fontHandler := fonts.NewHandler(fontCatalog)

	sanitizer := icons.NewSanitizer()
	iconLibrary := icons.NewLibrary(cfg.IconDir, sanitizer)
	iconHandler := icons.NewHandler(iconLibrary)

	renderer := &engine.Renderer{
		Fonts:    fontCatalog,
		Icons:    iconLibrary,
		Sanitize: sanitizer,
	}
	renderHandler := render.NewHandler(renderer, storeService)

	// Document loader for the preview hub
	docLoader := func(templateID string) (*template.Template, error) {
		// Use a background context since this runs in the hub goroutine
		return storeService.LoadDocument(context.Background(), templateID)
	}

	hub := preview.NewHub(renderer, docLoader)
	go hub.Run()

	origins := strings.Split(cfg.AllowedOrigins, ",")
	originPatterns := wsOriginPatterns(origins)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Font catalog (public, the editor needs it before sign-in)
	r.HandleFunc("/fonts", fontHandler.List).Methods("GET")
	r.HandleFunc("/fonts/{slug}", fontHandler.Get).Methods("GET")

	// Icon endpoints (public, used by playground and authenticated users)
	r.HandleFunc("/icons/upload", iconHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/icons/").Handler(iconHandler.Serve()).Methods("GET")

	// Stateless render endpoints (public, the playground renders unsaved templates)
	r.HandleFunc("/render", renderHandler.RenderInline).Methods("POST", "OPTIONS")
	r.HandleFunc("/render/layers", renderHandler.AnalyzeInline).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/templates", storeHandler.List).Methods("GET")
	api.HandleFunc("/templates", storeHandler.Create).Methods("POST")
	api.HandleFunc("/templates/shared", storeHandler.ListShared).Methods("GET")
	api.HandleFunc("/templates/{templateId}", storeHandler.Get).Methods("GET")
	api.HandleFunc("/templates/{templateId}", storeHandler.UpdateMeta).Methods("PATCH")
	api.HandleFunc("/templates/{templateId}", storeHandler.Delete).Methods("DELETE")
	api.HandleFunc("/templates/{templateId}/document", storeHandler.UpdateDocument).Methods("PUT")
	api.HandleFunc("/templates/{templateId}/share", storeHandler.SetShared).Methods("POST")
	api.HandleFunc("/templates/{templateId}/render", renderHandler.RenderStored).Methods("POST")
	api.HandleFunc("/templates/{templateId}/layers", renderHandler.Layers).Methods("GET")
	api.HandleFunc("/templates/{templateId}/export", renderHandler.Export).Methods("GET")

	api.HandleFunc("/icons", iconHandler.List).Methods("GET")
	api.HandleFunc("/icons/{iconId}", iconHandler.Remove).Methods("DELETE")

	// WebSocket endpoint
	r.HandleFunc("/ws/preview/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, storeService, originPatterns)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so every preview session closes cleanly
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// wsOriginPatterns reduces configured origins to the host patterns the
// websocket accept check matches against.
func wsOriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *preview.Hub, authSvc *auth.Service, storeSvc *store.Service, originPatterns []string) {
	vars := mux.Vars(r)
	roomID := vars["roomId"]

	var userID string
	var displayName string

	// The playground room allows anonymous access
	if roomID == preview.PlaygroundRoom {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for stored-template rooms
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// Room ids are template ids; joining needs read access
		if _, err := storeSvc.Get(r.Context(), roomID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "template not found", http.StatusNotFound)
				return
			}
			http.Error(w, "no access to this template", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := preview.NewClient(hub, conn, userID, displayName, roomID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
