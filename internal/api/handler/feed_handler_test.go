package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"property-feed/internal/api"
	"property-feed/internal/api/handler"
	"property-feed/internal/cache"
	"property-feed/internal/model"
	"property-feed/internal/scheduler"
	"property-feed/internal/store"
	"property-feed/internal/ws"
	"property-feed/pkg/router"
	"property-feed/pkg/utils"
)

func newTestServer(t *testing.T) (*httptest.Server, *cache.Cache, *store.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := utils.NewLogger()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	feedCache := cache.New(rdb, st)

	h := handler.NewFeedHandler(feedCache, st, scheduler.New(nil, log), ws.NewHub(log), log)
	r := router.New()
	api.RegisterRoutes(r, h)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, feedCache, st
}

func getJSON(t *testing.T, url string, wantStatus int) interface{} {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: invalid JSON: %v", url, err)
	}
	return body
}

func TestLatestEndpointServesNewestPayload(t *testing.T) {
	srv, feedCache, _ := newTestServer(t)
	ctx := context.Background()

	rec := map[string]interface{}{"propertyId": "PROP1", "metrics": map[string]interface{}{"price": 900000.0}}
	if err := feedCache.Set(ctx, model.CategoryProperty.LatestKey(), rec, time.Hour); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}

	body := getJSON(t, srv.URL+"/property-data", http.StatusOK)
	m, ok := body.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %T", body)
	}
	if m["propertyId"] != "PROP1" {
		t.Errorf("propertyId: got %v, want PROP1", m["propertyId"])
	}
}

func TestLatestEndpointNotFoundWhenEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	getJSON(t, srv.URL+"/market-data", http.StatusNotFound)
}

// A latest entry expires with the cache TTL while the row keeps living
// in SQLite; the endpoint must fall through to the store and re-warm.
func TestLatestEndpointFallsBackToStoreOnColdCache(t *testing.T) {
	srv, feedCache, st := newTestServer(t)
	ctx := context.Background()

	payload := []byte(`{"projectId":"INF1","suburb":"Parramatta","status":"approved"}`)
	if err := st.Insert(ctx, model.CategoryInfrastructure, "infrastructure:INF1", payload); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}

	body := getJSON(t, srv.URL+"/infrastructure-data", http.StatusOK)
	m, ok := body.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %T", body)
	}
	if m["projectId"] != "INF1" {
		t.Errorf("projectId: got %v, want INF1", m["projectId"])
	}

	// The newest row wins over earlier inserts.
	newer := []byte(`{"projectId":"INF2","suburb":"Blacktown","status":"planned"}`)
	if err := st.Insert(ctx, model.CategoryInfrastructure, "infrastructure:INF2", newer); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
	if err := feedCache.Invalidate(ctx, model.CategoryInfrastructure.LatestKey()); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	body = getJSON(t, srv.URL+"/infrastructure-data", http.StatusOK)
	if m, ok = body.(map[string]interface{}); !ok || m["projectId"] != "INF2" {
		t.Errorf("expected newest row INF2, got %v", body)
	}

	// The hit re-warms the latest key so the next read stays in Redis.
	var warmed interface{}
	if err := feedCache.Get(ctx, model.CategoryInfrastructure.LatestKey(), &warmed); err != nil {
		t.Errorf("latest key should be re-warmed: %v", err)
	}
}

func TestBatchLookupPreservesOrder(t *testing.T) {
	srv, feedCache, _ := newTestServer(t)
	ctx := context.Background()

	if err := feedCache.Set(ctx, "infrastructure:INF1", "one", time.Hour); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}
	if err := feedCache.Set(ctx, "infrastructure:INF3", "three", time.Hour); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}

	body := getJSON(t, srv.URL+"/infrastructure-data?ids=INF1,INF2,INF3", http.StatusOK)
	list, ok := body.([]interface{})
	if !ok {
		t.Fatalf("expected array, got %T", body)
	}
	if len(list) != 3 {
		t.Fatalf("length: got %d, want 3", len(list))
	}
	if list[0] != "one" || list[1] != nil || list[2] != "three" {
		t.Errorf("batch result wrong: %+v", list)
	}
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := getJSON(t, srv.URL+"/healthz", http.StatusOK)
	m, ok := body.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %T", body)
	}
	if m["status"] != "ok" {
		t.Errorf("status: got %v, want ok", m["status"])
	}
	if m["clients"] != float64(0) {
		t.Errorf("clients: got %v, want 0", m["clients"])
	}
}

func TestInvalidateCacheEndpoint(t *testing.T) {
	srv, feedCache, _ := newTestServer(t)
	ctx := context.Background()

	if err := feedCache.Set(ctx, "property:PROP1", "v", time.Hour); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}
	if err := feedCache.Set(ctx, "market:MKT1", "v", time.Hour); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}

	resp, err := http.Post(srv.URL+"/cache/invalidate?pattern=property:*", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var gone string
	if err := feedCache.Get(ctx, "property:PROP1", &gone); err == nil {
		t.Error("property entry should have been evicted")
	}
	var kept string
	if err := feedCache.Get(ctx, "market:MKT1", &kept); err != nil {
		t.Errorf("market entry should have survived: %v", err)
	}

	// Missing pattern is a client error.
	resp, err = http.Post(srv.URL+"/cache/invalidate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/no-such-feed")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
