// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/folio/internal/auth"
	"github.com/tomtom215/folio/internal/middleware"
	"github.com/tomtom215/folio/internal/models"
)

// Router wires handlers, middleware and admin authentication.
type Router struct {
	handler   *Handler
	mw        *ChiMiddleware
	tokens    auth.TokenValidator
	adminRole string
}

// NewRouter creates a router. A nil tokens validator keeps the admin
// endpoints closed.
func NewRouter(handler *Handler, mw *ChiMiddleware, tokens auth.TokenValidator, adminRole string) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:   handler,
		mw:        mw,
		tokens:    tokens,
		adminRole: adminRole,
	}
}

// Setup builds the chi handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())
	r.Use(chimiddleware.SetHeader("X-Content-Type-Options", "nosniff"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, models.ErrCodeValidation, "Method not allowed", nil)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/recommend", func(r chi.Router) {
			r.Get("/works", router.handler.RecommendWorks)
			r.Get("/users", router.handler.RecommendUsers)
			r.Get("/interests", router.handler.RecommendInterests)
		})

		r.Route("/admin/recommendations", func(r chi.Router) {
			r.Use(auth.RequireRole(router.tokens, router.adminRole))
			r.With(router.mw.RateLimitTrigger()).Post("/run", router.handler.RunRecommendations)
			r.Get("/jobs", router.handler.ListJobs)
			r.Get("/jobs/{id}", router.handler.GetJob)
		})
	})

	return r
}
