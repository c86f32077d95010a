package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"inventory-api/internal/config"
	"inventory-api/internal/services"
	"inventory-api/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func newTestRouter() *mux.Router {
	cfg := config.Config{
		Port:        "8080",
		JWTSecret:   "test-secret",
		Env:         "development",
		FrontendURL: "http://localhost:3001",
	}
	mem := store.NewMemory()
	return SetupRouter(cfg, Stores{Users: mem, Products: mem, Pinger: mem}, nil, zerolog.Nop())
}

func doJSON(r *mux.Router, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == services.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func loginAs(t *testing.T, r *mux.Router, username, password string) *http.Cookie {
	t.Helper()

	rec := doJSON(r, "POST", "/api/auth/signup", `{"username":"`+username+`","password":"`+password+`"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(r, "POST", "/api/auth/login", `{"username":"`+username+`","password":"`+password+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func TestHealth(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(r, "GET", "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["db"] != "connected" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter()

	// Signup.
	rec := doJSON(r, "POST", "/api/auth/signup", `{"username":"alice","password":"pw123456"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] == nil {
		t.Error("signup response missing id")
	}

	// Duplicate signup conflicts.
	rec = doJSON(r, "POST", "/api/auth/signup", `{"username":"alice","password":"other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup returned %d, want 409", rec.Code)
	}

	// Missing fields.
	rec = doJSON(r, "POST", "/api/auth/signup", `{"username":"bob"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("signup without password returned %d, want 400", rec.Code)
	}

	// Wrong password and unknown user must be indistinguishable.
	wrongPassword := doJSON(r, "POST", "/api/auth/login", `{"username":"alice","password":"nope"}`, nil)
	unknownUser := doJSON(r, "POST", "/api/auth/login", `{"username":"carol","password":"nope"}`, nil)
	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Errorf("failed logins returned %d and %d, want 401", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("failed login bodies differ: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}

	// Successful login sets the session cookie.
	rec = doJSON(r, "POST", "/api/auth/login", `{"username":"alice","password":"pw123456"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if body := decodeBody(t, rec); body["access_token"] != nil {
		t.Error("canonical login must not return the token in the body")
	}

	// /me with and without the cookie.
	rec = doJSON(r, "GET", "/api/auth/me", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("/me returned %d: %s", rec.Code, rec.Body.String())
	}
	me := decodeBody(t, rec)
	if me["username"] != "alice" || me["id"] == nil {
		t.Errorf("unexpected /me body: %v", me)
	}

	rec = doJSON(r, "GET", "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("/me without cookie returned %d, want 401", rec.Code)
	}
}

func TestProductFlow(t *testing.T) {
	r := newTestRouter()
	cookie := loginAs(t, r, "alice", "pw123456")

	// Protected routes reject anonymous requests.
	rec := doJSON(r, "POST", "/api/products", `{"name":"Widget","sku":"W-1","quantity":10,"price":9.99}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous add returned %d, want 401", rec.Code)
	}

	// Add.
	rec = doJSON(r, "POST", "/api/products", `{"name":"Widget","sku":"W-1","quantity":10,"price":9.99}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add returned %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	productID, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("add response missing id: %v", body)
	}

	// Missing fields.
	rec = doJSON(r, "POST", "/api/products", `{"name":"Widget"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete add returned %d, want 400", rec.Code)
	}

	// Duplicate SKU.
	rec = doJSON(r, "POST", "/api/products", `{"name":"Widget Mk2","sku":"W-1","quantity":3,"price":19.99}`, cookie)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate sku returned %d, want 409", rec.Code)
	}

	// Quantity update.
	idPath := "/api/products/" + strconv.Itoa(int(productID)) + "/quantity"
	rec = doJSON(r, "PUT", idPath, `{"quantity":7}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("quantity update returned %d: %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	product, ok := body["product"].(map[string]interface{})
	if !ok || product["quantity"] != float64(7) {
		t.Errorf("unexpected update body: %v", body)
	}

	// Negative quantity.
	rec = doJSON(r, "PUT", idPath, `{"quantity":-1}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative quantity returned %d, want 400", rec.Code)
	}

	// Unknown product.
	rec = doJSON(r, "PUT", "/api/products/999/quantity", `{"quantity":1}`, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown product returned %d, want 404", rec.Code)
	}

	// Listing.
	rec = doJSON(r, "GET", "/api/products?page=1&limit=5", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
	}
	page := decodeBody(t, rec)
	if page["total"] != float64(1) || page["page"] != float64(1) || page["limit"] != float64(5) {
		t.Errorf("unexpected list body: %v", page)
	}

	// Audit trail.
	rec = doJSON(r, "GET", "/api/products/1/updates", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("updates returned %d: %s", rec.Code, rec.Body.String())
	}
	trail := decodeBody(t, rec)
	updates, ok := trail["updates"].([]interface{})
	if !ok || len(updates) != 1 {
		t.Fatalf("expected 1 audit row, got %v", trail)
	}
	row := updates[0].(map[string]interface{})
	if row["old_quantity"] != float64(10) || row["new_quantity"] != float64(7) {
		t.Errorf("unexpected audit row: %v", row)
	}
}

func TestLegacyAliases(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(r, "POST", "/register", `{"username":"alice","password":"pw123456"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("/register returned %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["user_id"] == nil {
		t.Errorf("legacy signup must use user_id, got %v", body)
	}
	if body["id"] != nil {
		t.Errorf("legacy signup must not use id, got %v", body)
	}

	rec = doJSON(r, "POST", "/login", `{"username":"alice","password":"pw123456"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/login returned %d: %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	token, ok := body["access_token"].(string)
	if !ok || token == "" {
		t.Errorf("legacy login must return access_token, got %v", body)
	}
	cookie := sessionCookie(t, rec)
	if cookie.Value != token {
		t.Error("legacy login cookie and body token differ")
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(r, "GET", "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route returned %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Not found" {
		t.Errorf("unexpected 404 body: %v", body)
	}
}
