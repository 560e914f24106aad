package integrationtests

import (
	auction "agribid/internal/auctionService"
	checkout "agribid/internal/checkoutService"
	"agribid/internal/localstore"
	model "agribid/internal/models"
	"agribid/internal/repository"
	"agribid/internal/server"
	session "agribid/internal/sessionService"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestEnv bundles the router with the repo so tests can seed state directly.
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
}

// SetupTestEnv initializes the full service stack over an in-memory
// repository and storage for integration testing.
func SetupTestEnv(users ...model.User) *TestEnv {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()

	for _, user := range users {
		_ = repo.CreateUser(user)
	}

	auctionSvc := auction.NewAuctionService(repo)
	sessionSvc := session.NewSessionService(repo, localstore.NewMemStore())
	checkoutSvc := checkout.NewCheckoutService(repo, auctionSvc)

	router := server.SetupRouter(server.Services{
		Auction:  auctionSvc,
		Session:  sessionSvc,
		Checkout: checkoutSvc,
	})
	return &TestEnv{Router: router, Repo: repo}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
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
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

// LoginAs logs an already-seeded user in through the HTTP surface.
func LoginAs(t *testing.T, router *gin.Engine, user model.User) {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, router, "POST", "/auth/login", map[string]any{
		"email":     user.Email,
		"password":  "any-password",
		"user_type": string(user.UserType),
	})
	if w.Code != 200 {
		t.Fatalf("login as %s failed with status %d: %s", user.Email, w.Code, w.Body.String())
	}
}
