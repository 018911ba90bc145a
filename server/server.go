package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StreamingMusical/config"
	"StreamingMusical/db"
	"StreamingMusical/logger"
	"StreamingMusical/repository"
	"StreamingMusical/storage"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// OpenStore builds the configured store: the in-process MemoryStore, or a
// migrated GormStore on the relational backend.
func OpenStore(cfg *config.Config) (repository.Store, error) {
	if cfg.UseMemoryDB {
		logger.Info("[Server] Using in-memory store")
		return repository.NewMemoryStore(), nil
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		db.Close(gdb)
		return nil, err
	}
	logger.Info("[Server] Connected to database", logger.String("driver", cfg.DBDriver))
	return repository.NewGormStore(gdb), nil
}

// OpenAssets builds the configured asset store.
func OpenAssets(ctx context.Context, cfg *config.Config) (storage.AssetStore, error) {
	switch cfg.AssetBackend {
	case config.AssetBackendMinio:
		return storage.NewMinioStore(ctx, cfg)
	case config.AssetBackendLocal, "":
		root, err := storage.ResolveRoot(cfg.MediaDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}
		logger.Info("[Server] Using local asset store", logger.String("root", root))
		return storage.NewLocalStore(root)
	default:
		return nil, fmt.Errorf("unsupported asset backend %q", cfg.AssetBackend)
	}
}

// recoveryLogger routes panics caught by handlers.RecoveryHandler to zap.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logger.Error("[HTTP] Panic recovered", logger.String("panic", fmt.Sprint(v...)))
}

// NewRouter wires every endpoint onto a gorilla/mux router wrapped in
// request logging, panic recovery and CORS.
func NewRouter(h *APIHandler) http.Handler {
	router := mux.NewRouter()
	gzip := handlers.CompressHandler

	// users and auth
	router.HandleFunc("/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/usuarios/{id_usuario}", h.GetUserHandler).Methods(http.MethodGet)
	router.Handle("/usuarios/{id_usuario}/playlists", gzip(http.HandlerFunc(h.GetUserPlaylistsHandler))).Methods(http.MethodGet)

	// tracks
	router.Handle("/musicas", gzip(http.HandlerFunc(h.GetTracksHandler))).Methods(http.MethodGet)
	router.Handle("/musicas/genero/{genero}", gzip(http.HandlerFunc(h.GetTracksByGenreHandler))).Methods(http.MethodGet)
	router.Handle("/musicas/autor/{id_usuario}", gzip(http.HandlerFunc(h.GetTracksByUserHandler))).Methods(http.MethodGet)
	router.HandleFunc("/musicas/criar", h.CreateTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/musicas/{id_musica}/stream", h.StreamTrackHandler).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/musicas/{id_musica}/editar", h.UpdateTrackHandler).Methods(http.MethodPut)
	router.HandleFunc("/musicas/{id_musica}/metadata", h.UpdateTrackMetadataHandler).Methods(http.MethodPut)
	router.HandleFunc("/musicas/{id_musica}", h.DeleteTrackHandler).Methods(http.MethodDelete)

	// playlists
	router.HandleFunc("/playlists/{id_dono}", h.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id_playlist}/add/{id_musica}", h.AddTrackToPlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id_playlist}/musicas/{id_musica}", h.RemoveTrackFromPlaylistHandler).Methods(http.MethodDelete)
	router.Handle("/playlists/{id_playlist}/musicas", gzip(http.HandlerFunc(h.GetPlaylistTracksHandler))).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id_playlist}", h.DeletePlaylistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id_playlist}", h.RenamePlaylistHandler).Methods(http.MethodPut)

	// albums
	router.HandleFunc("/albuns", h.CreateAlbumHandler).Methods(http.MethodPost)
	router.HandleFunc("/albuns/{id_album}", h.DeleteAlbumHandler).Methods(http.MethodDelete)
	router.HandleFunc("/albuns/{id_album}", h.UpdateAlbumHandler).Methods(http.MethodPut)
	router.Handle("/albuns/{id_album}/musicas", gzip(http.HandlerFunc(h.GetAlbumTracksHandler))).Methods(http.MethodGet)
	router.HandleFunc("/albuns/{id_album}/upload_capa", h.UploadCoverHandler).Methods(http.MethodPost)
	router.HandleFunc("/albuns/{id_album}/capa", h.GetCoverHandler).Methods(http.MethodGet, http.MethodHead)

	router.HandleFunc("/ping", h.PingHandler).Methods(http.MethodGet)

	// Frontend UI serving
	router.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(newStaticHandler(h.cfg.StaticDir))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Range", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"Content-Length", "Content-Range", "X-Request-ID"}),
		handlers.MaxAge(86400),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))

	return requestLogger(recovery(cors(router)))
}

// Start initializes the store and asset backend and serves HTTP until
// SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	assets, err := OpenAssets(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(NewAPIHandler(store, assets, cfg)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] Listening", logger.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("[Server] Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("[Server] Server stopped")
	return nil
}
