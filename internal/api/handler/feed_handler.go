package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"property-feed/internal/cache"
	"property-feed/internal/model"
	"property-feed/internal/scheduler"
	"property-feed/internal/store"
	"property-feed/internal/ws"
	"property-feed/pkg/utils"
)

// LatestStore resolves the newest persisted record of a category when
// the cache holds no latest entry.
type LatestStore interface {
	LatestByCategory(ctx context.Context, category model.Category) ([]byte, error)
}

// FeedHandler serves the latest transformed payloads and the live
// WebSocket channel. All collaborators are injected.
type FeedHandler struct {
	cache  *cache.Cache
	latest LatestStore
	sched  *scheduler.Scheduler
	hub    *ws.Hub
	log    *utils.Logger
}

func NewFeedHandler(c *cache.Cache, latest LatestStore, sched *scheduler.Scheduler, hub *ws.Hub, log *utils.Logger) *FeedHandler {
	return &FeedHandler{cache: c, latest: latest, sched: sched, hub: hub, log: log}
}

// PropertyData returns the latest transformed property payload
// @Summary Latest property data
// @Description Latest transformed property record, or specific records via ?ids=
// @Tags feeds
// @Produce json
// @Param ids query string false "Comma-separated record IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No data distributed yet"
// @Router /property-data [get]
func (h *FeedHandler) PropertyData(w http.ResponseWriter, r *http.Request) {
	h.serveCategory(w, r, model.CategoryProperty)
}

// MarketData returns the latest transformed market payload
// @Summary Latest market data
// @Tags feeds
// @Produce json
// @Param ids query string false "Comma-separated record IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No data distributed yet"
// @Router /market-data [get]
func (h *FeedHandler) MarketData(w http.ResponseWriter, r *http.Request) {
	h.serveCategory(w, r, model.CategoryMarket)
}

// InfrastructureData returns the latest transformed infrastructure payload
// @Summary Latest infrastructure data
// @Tags feeds
// @Produce json
// @Param ids query string false "Comma-separated record IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No data distributed yet"
// @Router /infrastructure-data [get]
func (h *FeedHandler) InfrastructureData(w http.ResponseWriter, r *http.Request) {
	h.serveCategory(w, r, model.CategoryInfrastructure)
}

func (h *FeedHandler) serveCategory(w http.ResponseWriter, r *http.Request, category model.Category) {
	if ids := r.URL.Query().Get("ids"); ids != "" {
		h.serveByIDs(w, r, category, strings.Split(ids, ","))
		return
	}

	var payload interface{}
	err := h.cache.Get(r.Context(), category.LatestKey(), &payload)
	if errors.Is(err, cache.ErrMiss) {
		// The latest key expires with the cache TTL while rows keep
		// living in SQLite, so resolve from the store and re-warm.
		h.serveLatestFromStore(w, r, category)
		return
	}
	if err != nil {
		h.log.Error("latest %s lookup failed: %v", category, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *FeedHandler) serveLatestFromStore(w http.ResponseWriter, r *http.Request, category model.Category) {
	raw, err := h.latest.LatestByCategory(r.Context(), category)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data available"})
		return
	}
	if err != nil {
		h.log.Error("latest %s store lookup failed: %v", category, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.log.Error("latest %s payload corrupt: %v", category, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	if err := h.cache.Set(r.Context(), category.LatestKey(), payload, cache.DefaultTTL); err != nil {
		h.log.Warn("re-warming %s failed: %v", category.LatestKey(), err)
	}
	writeJSON(w, http.StatusOK, payload)
}

// serveByIDs resolves a batch lookup, preserving request order with null
// entries for unknown IDs.
func (h *FeedHandler) serveByIDs(w http.ResponseWriter, r *http.Request, category model.Category, ids []string) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, category.CacheKey(strings.TrimSpace(id)))
	}

	values, err := h.cache.MGet(r.Context(), keys)
	if err != nil {
		h.log.Error("batch %s lookup failed: %v", category, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// Healthz reports scheduler and gateway liveness
// @Summary Service health
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (h *FeedHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": h.hub.ClientCount(),
		"jobs":    h.sched.Statuses(),
	})
}

// InvalidateCache evicts cache entries by key pattern
// @Summary Bulk cache eviction
// @Description Deletes every cache entry matching the glob, e.g. pattern=property:*
// @Tags ops
// @Produce json
// @Param pattern query string true "Key glob pattern"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing pattern"
// @Router /cache/invalidate [post]
func (h *FeedHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pattern is required"})
		return
	}
	if err := h.cache.InvalidatePattern(r.Context(), pattern); err != nil {
		h.log.Error("invalidate %q failed: %v", pattern, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	h.log.Info("evicted cache entries matching %q", pattern)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "pattern": pattern})
}

// LiveFeed upgrades the connection into the broadcast hub
// @Summary Live update channel
// @Description WebSocket endpoint; every published message is pushed verbatim as a JSON text frame
// @Tags feeds
// @Router /ws [get]
func (h *FeedHandler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(h.hub, w, r)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
