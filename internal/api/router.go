// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 750 * time.Millisecond

// Router wires handlers and middleware onto a chi router.
type Router struct {
	handler       *Handler
	identity      *auth.Identity
	chiMiddleware *ChiMiddleware
	liveFeed      http.Handler
}

// NewRouter creates a router. liveFeed serves /api/ws and may be nil.
func NewRouter(handler *Handler, identity *auth.Identity, mw *ChiMiddleware, liveFeed http.Handler) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		identity:      identity,
		chiMiddleware: mw,
		liveFeed:      liveFeed,
	}
}

// Handler builds the HTTP handler.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(auth.SecurityHeaders)
	r.Use(router.identity.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Operational Endpoints
	// ========================
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API Endpoints
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		// websocket upgrades must bypass compression
		if router.liveFeed != nil {
			r.Handle("/ws", router.liveFeed)
		}

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, "application/json"))

			// Public reads
			r.Get("/randomize/stats", router.handler.RandomizeStats)
			r.Get("/history", router.handler.History)
			r.Get("/user/check", router.handler.UserCheck)
			r.Post("/user/register", router.handler.UserRegister)
			r.Get("/user/{username}/stats", router.handler.UserStats)
			r.Get("/restaurants", router.handler.ListRestaurants)
			r.Get("/restaurants/{id}", router.handler.GetRestaurant)
			r.Get("/categories", router.handler.ListCategories)
			r.Get("/distances", router.handler.ListDistances)
			r.Get("/places/search", router.handler.SearchPlaces)
			r.Get("/places/{placeID}", router.handler.PlaceDetails)

			// Registered users only
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser)

				r.Get("/randomize", router.handler.Randomize)
				r.Post("/history/{entryID}/went", router.handler.MarkWent)
				r.Post("/restaurants", router.handler.CreateRestaurant)
				r.Put("/restaurants/{id}", router.handler.UpdateRestaurant)
				r.Delete("/restaurants/{id}", router.handler.DeleteRestaurant)
				r.Post("/categories", router.handler.AddCategory)
				r.Post("/backup", router.handler.CreateBackup)
				r.Get("/backups", router.handler.ListBackups)
				r.Post("/restore", router.handler.Restore)
			})
		})
	})

	return r
}
