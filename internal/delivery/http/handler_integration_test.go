package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/takato23/acomerlahechopormi-sub001/config"
	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/seed"
	"github.com/takato23/acomerlahechopormi-sub001/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*", "https://acomer.example"},
		},
		Keywords: config.KeywordsConfig{
			Source: config.SourceSeed,
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

// setupTestRouter creates a test router without a pantry service
func setupTestRouter() *gin.Engine {
	// Pass nil for the pantry service - handler returns 501 for pantry endpoints
	handler := NewHandler(nil, nil)
	if handler == nil {
		panic("setupTestRouter: NewHandler returned nil")
	}

	router := SetupRouter(testConfig(), handler, nil)
	if router == nil {
		panic("setupTestRouter: SetupRouter returned nil *gin.Engine")
	}

	return router
}

// failingSource is a keyword source that is always down
type failingSource struct{}

func (failingSource) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	return nil, errors.New("connection refused")
}

// setupTestRouterWithService wires a real PantryService over source.
// load controls whether the index is loaded before serving.
func setupTestRouterWithService(t *testing.T, source domain.KeywordSource, load bool) *gin.Engine {
	t.Helper()

	index := usecase.NewKeywordIndex(source, nil)
	if load {
		if err := index.Load(context.Background()); err != nil {
			t.Fatalf("index.Load() error = %v", err)
		}
	}

	handler := NewHandler(usecase.NewPantryService(index, nil), nil)
	return SetupRouter(testConfig(), handler, nil)
}

func seedSource(t *testing.T) domain.KeywordSource {
	t.Helper()
	s, err := seed.NewSource()
	if err != nil {
		t.Fatalf("seed.NewSource() error = %v", err)
	}
	return s
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return response
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		w := doJSON(router, "GET", "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decode(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != serviceName {
			t.Errorf("service = %v, want %s", response["service"], serviceName)
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("reports loaded keyword index", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), true)

		response := decode(t, doJSON(router, "GET", "/health", ""))
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		keywords, ok := response["keywords"].(map[string]interface{})
		if !ok || keywords["loaded"] != true {
			t.Errorf("keywords = %v, want loaded index", response["keywords"])
		}
	})

	t.Run("reports degraded when index is empty", func(t *testing.T) {
		router := setupTestRouterWithService(t, failingSource{}, false)

		w := doJSON(router, "GET", "/health", "")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if response := decode(t, w); response["status"] != "degraded" {
			t.Errorf("status = %v, want degraded", response["status"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doJSON(router, method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestPantryEndpointsNotConfigured tests the 501 answer without a service
func TestPantryEndpointsNotConfigured(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/api/v1/pantry/parse", `{"text":"2 kg harina"}`},
		{"POST", "/api/v1/pantry/classify", `{"name":"harina"}`},
		{"POST", "/api/v1/pantry/interpret", `{"text":"2 kg harina"}`},
		{"GET", "/api/v1/units/normalize?unit=kilos", ""},
		{"GET", "/api/v1/keywords/status", ""},
		{"POST", "/api/v1/keywords/reload", ""},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()
			w := doJSON(router, endpoint.method, endpoint.path, endpoint.body)

			if w.Code != http.StatusNotImplemented {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
			}

			errorMsg, ok := decode(t, w)["error"].(string)
			if !ok || !strings.Contains(errorMsg, "not configured") {
				t.Errorf("error = %q, want to contain 'not configured'", errorMsg)
			}
		})
	}
}

// TestParseEndpoint tests POST /api/v1/pantry/parse
func TestParseEndpoint(t *testing.T) {
	router := setupTestRouterWithService(t, seedSource(t), true)

	t.Run("parses quantity, unit and name", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":"1 kg y medio de pollo"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var entry domain.ParsedEntry
		if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		want := domain.ParsedEntry{Quantity: 1.5, Unit: "kg", IngredientName: "pollo"}
		if entry != want {
			t.Errorf("entry = %+v, want %+v", entry, want)
		}
	})

	t.Run("reports fallback", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":"Sal"}`)

		response := decode(t, w)
		if response["usedFallback"] != true {
			t.Errorf("usedFallback = %v, want true", response["usedFallback"])
		}
		if response["unit"] != "u" {
			t.Errorf("unit = %v, want u", response["unit"])
		}
	})

	t.Run("returns 422 for empty input", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":"   "}`)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
		response := decode(t, w)
		if response["code"] != "empty_input" {
			t.Errorf("code = %v, want empty_input", response["code"])
		}
		if response["input"] != "   " {
			t.Errorf("input = %q, want original text", response["input"])
		}
	})

	t.Run("returns 422 for unparseable input", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":"de"}`)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
		if response := decode(t, w); response["code"] != "unparseable" {
			t.Errorf("code = %v, want unparseable", response["code"])
		}
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 400 for missing body", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/parse", "")

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestClassifyEndpoint tests POST /api/v1/pantry/classify
func TestClassifyEndpoint(t *testing.T) {
	t.Run("classifies with the seed table", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), true)

		response := decode(t, doJSON(router, "POST", "/api/v1/pantry/classify", `{"name":"Huevos"}`))
		if response["categoryId"] != "dairy" {
			t.Errorf("categoryId = %v, want dairy", response["categoryId"])
		}
	})

	t.Run("null for unknown names", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), true)

		w := doJSON(router, "POST", "/api/v1/pantry/classify", `{"name":"xyz"}`)
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		response := decode(t, w)
		if value, present := response["categoryId"]; !present || value != nil {
			t.Errorf("categoryId = %v (present %v), want null", value, present)
		}
	})

	t.Run("null before the index is loaded", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), false)

		response := decode(t, doJSON(router, "POST", "/api/v1/pantry/classify", `{"name":"huevos"}`))
		if response["categoryId"] != nil {
			t.Errorf("categoryId = %v, want null", response["categoryId"])
		}
	})
}

// TestInterpretEndpoint tests POST /api/v1/pantry/interpret
func TestInterpretEndpoint(t *testing.T) {
	router := setupTestRouterWithService(t, seedSource(t), true)

	t.Run("dozen eggs end to end", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/interpret", `{"text":"una docena de huevos"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var suggestion domain.Suggestion
		if err := json.Unmarshal(w.Body.Bytes(), &suggestion); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		want := domain.ParsedEntry{Quantity: 1, Unit: "doc", IngredientName: "huevos"}
		if suggestion.Entry == nil || *suggestion.Entry != want {
			t.Errorf("entry = %+v, want %+v", suggestion.Entry, want)
		}
		if suggestion.CategoryID == nil || *suggestion.CategoryID != "dairy" {
			t.Errorf("categoryId = %v, want dairy", suggestion.CategoryID)
		}
	})

	t.Run("returns 422 for empty input", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/v1/pantry/interpret", `{"text":""}`)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
	})
}

// TestNormalizeUnitEndpoint tests GET /api/v1/units/normalize
func TestNormalizeUnitEndpoint(t *testing.T) {
	router := setupTestRouterWithService(t, seedSource(t), true)

	tests := []struct {
		query string
		want  interface{}
	}{
		{"?unit=Kilos", "kg"},
		{"?unit=docena", "doc"},
		{"?unit=manojo", "manojo"},
		{"?unit=", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(router, "GET", "/api/v1/units/normalize"+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
			}
			if got := decode(t, w)["unit"]; got != tt.want {
				t.Errorf("unit = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKeywordEndpoints tests reload and status
func TestKeywordEndpoints(t *testing.T) {
	t.Run("reload loads the index", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), false)

		w := doJSON(router, "POST", "/api/v1/keywords/reload", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if response := decode(t, w); response["loaded"] != true {
			t.Errorf("loaded = %v, want true", response["loaded"])
		}

		status := decode(t, doJSON(router, "GET", "/api/v1/keywords/status", ""))
		if entries, _ := status["entries"].(float64); entries <= 0 {
			t.Errorf("entries = %v, want > 0", status["entries"])
		}
	})

	t.Run("reload returns 503 when the source is down", func(t *testing.T) {
		router := setupTestRouterWithService(t, failingSource{}, false)

		w := doJSON(router, "POST", "/api/v1/keywords/reload", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("reload accepts POST only", func(t *testing.T) {
		router := setupTestRouterWithService(t, seedSource(t), false)

		w := doJSON(router, "GET", "/api/v1/keywords/reload", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for local dev server", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:5173")
		}

		gotCreds := w.Header().Get("Access-Control-Allow-Credentials")
		if gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}
	})

	t.Run("pantry endpoint has CORS for production origin", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/pantry/parse", nil)
		req.Header.Set("Origin", "https://acomer.example")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "https://acomer.example" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "https://acomer.example")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		// Add a test route that panics
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := doJSON(router, "GET", "/panic", "")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		for _, path := range []string{"/api/pantry/parse", "/pantry/parse", "/api/v1/pantry", "/api/v1/pantry/"} {
			w := doJSON(router, "POST", path, "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Path %s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/health", ""},
		{"POST", "/api/v1/pantry/parse", `{"text":"3 tomates"}`},
		{"POST", "/api/v1/pantry/parse", `{"text":""}`},
		{"POST", "/api/v1/pantry/classify", `{"name":"tomates"}`},
		{"POST", "/api/v1/pantry/interpret", `{"text":"3 tomates"}`},
		{"GET", "/api/v1/units/normalize?unit=gr", ""},
		{"GET", "/api/v1/keywords/status", ""},
	}

	router := setupTestRouterWithService(t, seedSource(t), true)
	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			w := doJSON(router, endpoint.method, endpoint.path, endpoint.body)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}

// TestMetricsEndpoint tests that prometheus metrics are exposed
func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouterWithService(t, seedSource(t), true)
	doJSON(router, "POST", "/api/v1/pantry/parse", `{"text":"2 kg harina"}`)

	w := doJSON(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "pantry_parse_total") {
		t.Error("metrics output does not contain pantry_parse_total")
	}
}
