// Package server exposes the ingestion and query API over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mboyd/playlog/db"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New builds the API router over the given store.
func New(store *db.DB, logger zerolog.Logger) http.Handler {
	h := &handler{store: store}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(requestMetrics)

	r.Post("/add_channel", h.addChannel)
	r.Post("/add_performer", h.addPerformer)
	r.Post("/add_song", h.addSong)
	r.Post("/add_play", h.addPlay)

	r.Get("/get_song_plays", h.getSongPlays)
	r.Get("/get_channel_plays", h.getChannelPlays)
	r.Get("/get_top", h.getTop)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves the API on addr until ctx is canceled, then shuts down
// gracefully.
func Run(ctx context.Context, store *db.DB, logger zerolog.Logger, addr string) error {
	srv := http.Server{Addr: addr, Handler: New(store, logger)}

	errs := make(chan error)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errs
	}
}
