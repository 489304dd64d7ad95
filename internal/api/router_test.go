package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"secure-recipe/internal/api/middleware"
	aiservice "secure-recipe/internal/core/ai/service"
	"secure-recipe/internal/core/payment"
	"secure-recipe/internal/core/recipe"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	text string
	err  error
}

func (p *scriptedProvider) Generate(_ context.Context, _ string) (string, error) { return p.text, p.err }
func (p *scriptedProvider) GetModel() string { return "scripted-model" }
func (p *scriptedProvider) Close() error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:         config.AppConfig{Version: "test"},
		AI:          config.AIConfig{Provider: config.ProviderNone},
		RateLimit:   config.RateLimitConfig{Enabled: false},
		Static:      config.StaticConfig{Dir: t.TempDir()},
		MaxBodySize: 1 << 20,
	}
}

type testServer struct {
	router   *gin.Engine
	paystack *httptest.Server
}

func newTestServer(t *testing.T, cfg *config.Config, ai *aiservice.Service, paystackHandler http.HandlerFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if paystackHandler == nil {
		paystackHandler = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected paystack call to %s", r.URL.Path)
		}
	}
	ts := httptest.NewServer(paystackHandler)
	t.Cleanup(ts.Close)

	gateway, err := payment.NewPaystackClient(config.PaystackConfig{SecretKey: "sk_test", BaseURL: ts.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	router, err := SetupRouter(cfg, Dependencies{
		AI:       ai,
		Recipes:  recipe.NewService(ai),
		Payments: payment.NewService(gateway),
		Store:    middleware.NewMemoryStore(),
	})
	require.NoError(t, err)
	return &testServer{router: router, paystack: ts}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "203.0.113.7:4321"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeRecipes(t *testing.T, w *httptest.ResponseRecorder) []common.Recipe {
	t.Helper()
	var body common.RecipesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Recipes
}

func names(recipes []common.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func TestGenerateRecipes_UnavailableBackend(t *testing.T) {
	s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)

	w := s.do(http.MethodPost, "/generate-recipes", `{"ingredients": "chicken rice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Header().Get(common.HeaderRecipeSource))
	assert.Equal(t, []string{"Asian Chicken Stir-Fry", "Mediterranean Chicken Bowl"}, names(decodeRecipes(t, w)))
}

func TestSearchRecipes_UnavailableBackend(t *testing.T) {
	s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)

	w := s.do(http.MethodPost, "/search-recipes", `{"query": "dessert"}`)
	require.Equal(t, http.StatusOK, w.Code)
	recipes := decodeRecipes(t, w)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Chocolate Brownies", recipes[0].Name)
	assert.JSONEq(t, `{"recipes":[{
		"recipe_name":"Chocolate Brownies",
		"ingredients":"chocolate, butter, sugar, eggs, flour, cocoa powder",
		"instructions":"1. Melt chocolate and butter together. 2. Mix in sugar and eggs. 3. Fold in flour and cocoa powder. 4. Bake at 350°F for 25-30 minutes. 5. Let cool before serving.",
		"cook_time":"40 minutes"}]}`, w.Body.String())
}

func TestRecipeRoutes_Generated(t *testing.T) {
	ai := aiservice.NewWithProvider(&scriptedProvider{
		text: `Here you go! [{"recipe_name":"Shakshuka","ingredients":"eggs, tomatoes","instructions":"1. Simmer. 2. Poach.","cook_time":"25 minutes"}]`,
	})
	s := newTestServer(t, testConfig(t), ai, nil)

	w := s.do(http.MethodPost, "/search-recipes", `{"query": "eggs"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "generated", w.Header().Get(common.HeaderRecipeSource))
	assert.Equal(t, []string{"Shakshuka"}, names(decodeRecipes(t, w)))
}

func TestRecipeRoutes_MalformedGenerationFallsBack(t *testing.T) {
	ai := aiservice.NewWithProvider(&scriptedProvider{text: `[{"recipe_name":"Half a recipe"}]`})
	s := newTestServer(t, testConfig(t), ai, nil)

	w := s.do(http.MethodPost, "/generate-recipes", `{"ingredients": "beef"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback", w.Header().Get(common.HeaderRecipeSource))
	assert.Equal(t, []string{"Beef Stir-Fry", "Beef and Potato Stew"}, names(decodeRecipes(t, w)))
}

func TestRecipeRoutes_BadInput(t *testing.T) {
	for name, ai := range map[string]*aiservice.Service{
		"unavailable": aiservice.NewWithProvider(nil),
		"available":   aiservice.NewWithProvider(&scriptedProvider{text: "[]"}),
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, testConfig(t), ai, nil)

			tests := []struct {
				path string
				body string
				code int
				want string
			}{
				{path: "/generate-recipes", body: `{}`, code: http.StatusBadRequest, want: common.ErrCodeMissingInput},
				{path: "/generate-recipes", body: `{"ingredients": "<>[]"}`, code: http.StatusBadRequest, want: common.ErrCodeMissingInput},
				{path: "/search-recipes", body: `{"query": ""}`, code: http.StatusBadRequest, want: common.ErrCodeMissingInput},
				{path: "/generate-recipes", body: ``, code: http.StatusBadRequest, want: common.ErrCodeInvalidRequest},
				{path: "/search-recipes", body: `not json`, code: http.StatusBadRequest, want: common.ErrCodeInvalidRequest},
			}

			for _, tt := range tests {
				w := s.do(http.MethodPost, tt.path, tt.body)
				assert.Equal(t, tt.code, w.Code, "%s %s", tt.path, tt.body)

				var body common.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.want, body.Code, "%s %s", tt.path, tt.body)
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestVerifyPayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/T123", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","customer":{"email":"buyer@example.com"}}}`))
		})

		w := s.do(http.MethodPost, "/verify-payment", `{"reference": "T123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"Payment verified! Premium features unlocked.","email":"buyer@example.com"}`, w.Body.String())
	})

	t.Run("failed", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":true,"data":{"status":"abandoned"}}`))
		})

		w := s.do(http.MethodPost, "/verify-payment", `{"reference": "T123"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"failed","message":"Payment verification failed."}`, w.Body.String())
	})

	t.Run("gateway error", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})

		w := s.do(http.MethodPost, "/verify-payment", `{"reference": "T123"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body common.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Payment verification failed.", body.Error)
	})

	t.Run("missing reference", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)

		w := s.do(http.MethodPost, "/verify-payment", `{"reference": ""}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Payment reference is required.")
	})
}

func TestDiagnostics(t *testing.T) {
	t.Run("test", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)
		w := s.do(http.MethodGet, "/test", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"SecureRecipe Backend is LIVE! 🍳"}`, w.Body.String())
	})

	t.Run("test-ai unavailable", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)
		w := s.do(http.MethodGet, "/test-ai", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"AI model not configured"}`, w.Body.String())
	})

	t.Run("test-ai working", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(&scriptedProvider{text: "Yes, I am working!"}), nil)
		w := s.do(http.MethodGet, "/test-ai", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"AI is working!","response":"Yes, I am working!","model":"scripted-model"}`, w.Body.String())
	})

	t.Run("health probes", func(t *testing.T) {
		s := newTestServer(t, testConfig(t), aiservice.NewWithProvider(nil), nil)
		for _, path := range []string{"/health", "/ready", "/live"} {
			w := s.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestStaticFiles(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Static.Dir, "index.html"), []byte("<h1>SecureRecipe</h1>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Static.Dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Static.Dir, "js", "app.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, cfg, aiservice.NewWithProvider(nil), nil)

	w := s.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SecureRecipe")

	w = s.do(http.MethodGet, "/js/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = s.do(http.MethodGet, "/missing.css", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/js", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/nowhere", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit_RecipeRoutes(t *testing.T) {
	cfg := testConfig(t)
	// a day window keeps the test clear of window boundaries
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:       true,
		Storage:       config.StorageMemory,
		DefaultLimits: []string{"200 per day", "50 per hour"},
		RecipeLimits:  []string{"5 per day"},
	}
	s := newTestServer(t, cfg, aiservice.NewWithProvider(nil), nil)

	for i := 0; i < 5; i++ {
		w := s.do(http.MethodPost, "/search-recipes", `{"query": "curry"}`)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := s.do(http.MethodPost, "/search-recipes", `{"query": "curry"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")

	// each route keeps its own budget
	w = s.do(http.MethodPost, "/generate-recipes", `{"ingredients": "pasta"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// probes are exempt
	w = s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_InvalidLimits(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, DefaultLimits: []string{"lots"}}

	_, err := SetupRouter(cfg, Dependencies{AI: aiservice.NewWithProvider(nil), Recipes: recipe.NewService(nil)})
	assert.Error(t, err)
}
