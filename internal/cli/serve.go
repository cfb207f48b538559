package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"todolist/internal/handlers"
)

// ServeCmd returns the serve subcommand
func ServeCmd(assets Assets) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if cmd.Flags().Changed("port") {
				sess.cfg.Port, _ = cmd.Flags().GetString("port")
				if err := sess.cfg.Validate(); err != nil {
					return err
				}
			}

			router, err := NewRouter(sess, assets)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return listen(ctx, sess.cfg.Addr(), router)
		},
	}

	cmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
	return cmd
}

// NewRouter builds the HTTP handler for the web UI.
func NewRouter(sess *session, assets Assets) (http.Handler, error) {
	tmpl, err := handlers.ParseTemplates(assets.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	h := handlers.New(sess.store, tmpl)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	staticSub, err := fs.Sub(assets.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	h.Routes(r)

	return r, nil
}

func listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Printf("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
