package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// debugServer exposes the read-only health/introspection surface
// SPEC_FULL.md's DOMAIN STACK assigns to go-chi: "/healthz" (a static "ok"),
// "/debug/overlay" (the ten most recent block pointers the store reports)
// and "/debug/datasources" (the manifest agent's bound datasources). A real
// metrics registry stays an external collaborator per
// spec section 1; this is introspection, not instrumentation.
func (r *runtime) debugServer() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	router.Get("/healthz", r.handleHealthz)
	router.Get("/debug/overlay", r.handleDebugOverlay)
	router.Get("/debug/datasources", r.handleDebugDatasources)

	return router
}

func (r *runtime) handleHealthz(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *runtime) handleDebugOverlay(w http.ResponseWriter, req *http.Request) {
	recent, err := r.store.RecentBlockPtrs(req.Context(), 10)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recent_block_ptrs": recent,
	})
}

func (r *runtime) handleDebugDatasources(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"datasources": r.manifest.Datasources(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
