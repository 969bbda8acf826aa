package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rossocorsa/panigaleclub/internal/albums"
	"github.com/rossocorsa/panigaleclub/internal/auth"
	"github.com/rossocorsa/panigaleclub/internal/blob"
	"github.com/rossocorsa/panigaleclub/internal/config"
	"github.com/rossocorsa/panigaleclub/internal/gallery"
	"github.com/rossocorsa/panigaleclub/internal/handlers"
	"github.com/rossocorsa/panigaleclub/internal/store"
	"github.com/rossocorsa/panigaleclub/internal/tracing"
	"github.com/rossocorsa/panigaleclub/internal/upload"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	log.Println("Starting Panigale Club service...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Service: %s, Port: %s", cfg.ServiceName, cfg.ServicePort)

	// Initialize OpenTelemetry tracing
	shutdownTracer, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize the session state store
	var kv store.KV
	switch cfg.StoreBackend {
	case "redis":
		log.Println("Connecting to Redis...")
		redisKV, err := store.NewRedisKV(cfg.GetRedisAddr(), cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis store: %v", err)
		}
		log.Println("Redis store initialized")
		kv = redisKV
	default:
		kv = store.NewMemoryKV()
		log.Println("In-memory session store initialized")
	}
	sessionStore := store.New(kv)
	defer sessionStore.Close()

	// Initialize the preview blob store
	var blobs blob.Store
	switch cfg.BlobBackend {
	case "minio":
		log.Println("Connecting to MinIO...")
		minioStore, err := blob.NewMinioStore(
			cfg.MinIOEndpoint,
			cfg.MinIOAccessKey,
			cfg.MinIOSecretKey,
			cfg.MinIOBucketName,
			cfg.MinIOUseSSL,
		)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO store: %v", err)
		}
		log.Println("MinIO store initialized")
		blobs = minioStore
	default:
		blobs = blob.NewMemoryStore()
		log.Println("In-memory blob store initialized")
	}

	// Initialize domain services
	gate := auth.NewGate(sessionStore, cfg.LoginDelay)
	uploader := upload.New(sessionStore, blobs, upload.Timing{
		Tick:        cfg.UploadTick,
		Stagger:     cfg.UploadStagger,
		CommitDelay: cfg.CommitDelay,
		ClearDelay:  cfg.ClearDelay,
	}, uint(cfg.PreviewMaxWidth))
	defer uploader.Close()
	galleryService := gallery.New(sessionStore)
	views := gallery.NewViews(galleryService)
	albumManager := albums.NewManager(sessionStore)

	// Initialize handlers
	sess := handlers.NewSessions(cfg.SessionSecret)
	authHandler := handlers.NewAuthHandler(sess, gate, uploader, views)
	uploadHandler := handlers.NewUploadHandler(uploader)
	albumHandler := handlers.NewAlbumHandler(albumManager)
	imageHandler := handlers.NewImageHandler(galleryService, views, blobs)
	catalogHandler := handlers.NewCatalogHandler()

	// Setup HTTP router
	router := mux.NewRouter()

	// Health check endpoint (no tracing needed)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Public routes with tracing
	public := func(name string, fn http.HandlerFunc) http.Handler {
		return otelhttp.NewHandler(fn, name)
	}
	router.Handle("/api/login", public("POST /api/login", authHandler.Login)).Methods("POST")
	router.Handle("/api/logout", public("POST /api/logout", authHandler.Logout)).Methods("POST")
	router.Handle("/api/session", public("GET /api/session", authHandler.Session)).Methods("GET")
	router.Handle("/api/catalog", public("GET /api/catalog", catalogHandler.List)).Methods("GET")
	router.Handle("/api/catalog/{id}/{direction}", public("GET /api/catalog/{id}/{direction}", catalogHandler.Navigate)).Methods("GET")

	// Members routes: session-gated, with tracing
	member := func(name string, fn http.HandlerFunc) http.Handler {
		return otelhttp.NewHandler(handlers.RequireMember(sess, gate, fn), name)
	}
	router.Handle("/api/uploads", member("POST /api/uploads", uploadHandler.Add)).Methods("POST")
	router.Handle("/api/uploads", member("GET /api/uploads", uploadHandler.Status)).Methods("GET")
	router.Handle("/api/uploads", member("DELETE /api/uploads", uploadHandler.Clear)).Methods("DELETE")
	router.Handle("/api/uploads/start", member("POST /api/uploads/start", uploadHandler.Start)).Methods("POST")
	router.Handle("/api/uploads/{id}", member("DELETE /api/uploads/{id}", uploadHandler.Remove)).Methods("DELETE")
	router.Handle("/api/uploads/{id}/visibility", member("PUT /api/uploads/{id}/visibility", uploadHandler.SetVisibility)).Methods("PUT")

	router.Handle("/api/albums", member("GET /api/albums", albumHandler.List)).Methods("GET")
	router.Handle("/api/albums", member("POST /api/albums", albumHandler.Create)).Methods("POST")
	router.Handle("/api/albums/{id}", member("PUT /api/albums/{id}", albumHandler.Rename)).Methods("PUT")
	router.Handle("/api/albums/{id}", member("DELETE /api/albums/{id}", albumHandler.Delete)).Methods("DELETE")

	router.Handle("/api/images", member("GET /api/images", imageHandler.List)).Methods("GET")
	router.Handle("/api/images/filter", member("PUT /api/images/filter", imageHandler.SetFilter)).Methods("PUT")
	router.Handle("/api/images/selection", member("DELETE /api/images/selection", imageHandler.ClearSelection)).Methods("DELETE")
	router.Handle("/api/images/select-all", member("POST /api/images/select-all", imageHandler.ToggleSelectAll)).Methods("POST")
	router.Handle("/api/images/bulk/delete", member("POST /api/images/bulk/delete", imageHandler.BulkDelete)).Methods("POST")
	router.Handle("/api/images/bulk/album", member("POST /api/images/bulk/album", imageHandler.BulkAddToAlbum)).Methods("POST")
	router.Handle("/api/images/bulk/visibility", member("POST /api/images/bulk/visibility", imageHandler.BulkSetVisibility)).Methods("POST")
	router.Handle("/api/images/{id}/select", member("POST /api/images/{id}/select", imageHandler.ToggleSelect)).Methods("POST")
	router.Handle("/api/images/{id}/preview", member("GET /api/images/{id}/preview", imageHandler.Preview)).Methods("GET")

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServicePort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on port %s", cfg.ServicePort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
