package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	catHnd "ratematch-service/internal/catalog/handler"
	"ratematch-service/internal/config"
	"ratematch-service/internal/middleware"
	"ratematch-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, h *catHnd.Handler) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit -> rate
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20))
	r.Use(middleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))

	r.Get("/health", handlers.Health)

	// загрузка позиций
	r.Post("/load", h.Load(true))
	r.Post("/item", h.Load(false))
	r.Post("/item/upload", h.Upload)

	r.Get("/item", h.Items)
	r.Get("/items", h.Items)

	r.Delete("/clear", h.Clear)
	r.Post("/clear", h.Clear)

	r.Post("/match", h.Match)
	r.Post("/match/item", h.Match)
	r.Get("/match/random", h.MatchRandom)

	return r
}
