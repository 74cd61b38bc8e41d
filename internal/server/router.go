// Package server exposes the visualizer helpers as a small JSON API.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smallyu/go-btc-visual/internal/config"
	"github.com/smallyu/go-btc-visual/pkg/btcviz"
)

// NewRouter builds the chi router with rate limiting and request logging.
func NewRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	viz := btcviz.New(
		btcviz.WithTolerance(cfg.CurveTolerance),
		btcviz.WithLogger(logger),
		btcviz.WithLimits(cfg.MaxScalar, cfg.MaxMerkleLeaves, cfg.MiningMaxDifficulty, cfg.MiningYieldEvery),
	)
	h := &handlers{viz: viz, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewRateLimiter(cfg, logger).Middleware())
	r.Use(Logging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(middleware.Timeout(cfg.MiningTimeout + 5*time.Second))

		r.Post("/curve/solve", h.solveY)
		r.Post("/curve/add", h.addPoints)
		r.Post("/curve/mult", h.scalarMult)
		r.Post("/hash", h.digest)
		r.Post("/merkle/level", h.pairAndHash)
		r.Post("/merkle/root", h.merkleRoot)
		r.Post("/merkle/tree", h.merkleTree)
		r.Post("/merkle/proof", h.merkleProof)
		r.Post("/mine", h.mine)
		r.Post("/keys/{curve}", h.publicKey)
		r.Post("/schnorr/sign", h.schnorrSign)
		r.Post("/schnorr/verify", h.schnorrVerify)
		r.Post("/shamir/split", h.splitSecret)
		r.Post("/shamir/reconstruct", h.reconstructSecret)
		r.Post("/htlc/lock", h.lockHTLC)
		r.Post("/htlc/settle", h.settleHTLC)
	})

	return r
}

// Logging is a slog middleware using chi's WrapResponseWriter to capture status.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
