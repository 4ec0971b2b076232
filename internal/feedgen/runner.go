package feedgen

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ozdeals/dealboard/pkg/logger"
)

const serveReadHeaderTimeout = 5 * time.Second

// Run executes one generation pass. With Addr set it serves the feed
// over HTTP until ctx is canceled; otherwise it writes the TSV to the
// output file or stdout.
func Run(ctx context.Context, cfg *Config) error {
	cfg.withDefaults()
	gen := NewGenerator(cfg)

	if cfg.Addr != "" {
		return serve(ctx, cfg, gen)
	}

	feed := gen.TSV()
	if cfg.OutputFile == "" {
		_, err := os.Stdout.WriteString(feed)
		return err
	}
	return os.WriteFile(cfg.OutputFile, []byte(feed), 0o644)
}

// serve regenerates the feed on every request so timestamps stay fresh.
func serve(ctx context.Context, cfg *Config, gen *Generator) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.tsv", func(w http.ResponseWriter, r *http.Request) {
		cfg.Now = time.Now().UTC()
		w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
		_, _ = w.Write([]byte(gen.TSV()))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: serveReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Get().Info(ctx, "serving demo feed",
		logger.String("addr", cfg.Addr), logger.Int("deals", cfg.NumDeals))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
