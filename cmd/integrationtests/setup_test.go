package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"studentbidz/internal/clock"
	"studentbidz/internal/engine"
	"studentbidz/internal/fanout"
	"studentbidz/internal/lifecycle"
	"studentbidz/internal/models"
	"studentbidz/internal/ratelimit"
	"studentbidz/internal/server"
	"studentbidz/internal/store"
	"studentbidz/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// TestApp wires the full stack against in-memory state and a fake clock so
// integration tests can drive time explicitly.
type TestApp struct {
	Router    *gin.Engine
	Store     *store.AuctionStore
	Hub       *fanout.Hub
	Clock     *clock.Fake
	Lifecycle *lifecycle.Manager
}

var testStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// SetupTestApp initializes the router with in-memory state for integration testing.
func SetupTestApp() *TestApp {
	return SetupTestAppWithLimits(ratelimit.Limits{
		Cooldown:        0,
		DailyPerAuction: 1000,
		DailyTotal:      1000,
	})
}

// SetupTestAppWithLimits is SetupTestApp with explicit rate limits, for tests
// that exercise the limiter through the API.
func SetupTestAppWithLimits(limits ratelimit.Limits) *TestApp {
	gin.SetMode(gin.TestMode)

	st := store.NewAuctionStore()
	hub := fanout.NewHub(64)
	clk := clock.NewFake(testStart)
	limiter := ratelimit.NewLimiter(limits)
	eng := engine.New(st, limiter, hub, clk)
	mgr := lifecycle.NewManager(st, hub, clk, 30*time.Minute)
	h := handler.NewAuctionHandler(eng, mgr, st, hub, clk)

	return &TestApp{
		Router:    server.SetupRouter(h, hub),
		Store:     st,
		Hub:       hub,
		Clock:     clk,
		Lifecycle: mgr,
	}
}

// SeedAuction creates an auction directly in the store and returns its ID.
func (app *TestApp) SeedAuction(t *testing.T, id, sellerID string, startingPrice int64, endTime time.Time) string {
	err := app.Store.Create(models.Auction{
		ID:            id,
		SellerID:      sellerID,
		Title:         "item " + id,
		StartingPrice: startingPrice,
		Status:        models.StatusActive,
		EndTime:       endTime,
	})
	if err != nil {
		t.Fatalf("failed to seed auction: %v", err)
	}
	return id
}

// ExecuteRequestAndParse executes an HTTP request on the app router and parses
// the response envelope.
func (app *TestApp) ExecuteRequestAndParse(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data extracts the data object from a response envelope.
func Data(t *testing.T, resp map[string]any) map[string]any {
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}
