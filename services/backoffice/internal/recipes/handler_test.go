package recipes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteclub/staffops/pkg/auth"
)

const testSigningKey = "recipes-test-key"

var watchTime = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

type fixture struct {
	recipes *MockRecipeRepo
	views   *MockViewRepo
	router  chi.Router
}

func newFixture(guard *auth.Guard) *fixture {
	f := &fixture{recipes: &MockRecipeRepo{recipes: catalog()}, views: &MockViewRepo{}}
	h := NewHandler(f.recipes, f.views, guard, aqm.NewConfig(), aqm.NewNoopLogger())
	h.now = func() time.Time { return watchTime }

	r := chi.NewRouter()
	if guard != nil {
		r.Use(guard.Authenticate)
	}
	h.RegisterRoutes(r)
	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response does not contain data object: %s", w.Body.String())
	return data
}

func TestHandlerListRecipes(t *testing.T) {
	f := newFixture(nil)

	for _, query := range []string{"", "?q=latte", "?category=Hot+Drinks", "?q=zzz"} {
		w := f.do(httptest.NewRequest(http.MethodGet, "/recipes"+query, nil))
		assert.Equal(t, http.StatusOK, w.Code, query)
	}

	w := f.do(httptest.NewRequest(http.MethodGet, "/recipes/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Cold Drinks", "Hot Drinks", "Techniques"}, decodeData(t, w)["categories"])
}

func TestHandlerGetRecipe(t *testing.T) {
	f := newFixture(nil)
	id := f.recipes.recipes[1].ID.String()

	w := f.do(httptest.NewRequest(http.MethodGet, "/recipes/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cappuccino", decodeData(t, w)["name"])

	w = f.do(httptest.NewRequest(http.MethodGet, "/recipes/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerMarkWatched(t *testing.T) {
	recipeIndex := 0

	tests := []struct {
		name       string
		body       string
		token      bool
		wantStatus int
		wantID     string
	}{
		{name: "fromBody", body: `{"employee_id":"emp-1","employee_name":"Sarah Johnson"}`, wantStatus: http.StatusOK, wantID: "emp-1"},
		{name: "fromClaims", token: true, wantStatus: http.StatusOK, wantID: "emp-2"},
		{name: "claimsWin", body: `{"employee_id":"someone-else"}`, token: true, wantStatus: http.StatusOK, wantID: "emp-2"},
		{name: "noEmployee", wantStatus: http.StatusBadRequest},
		{name: "blankEmployee", body: `{"employee_id":"  "}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(auth.NewEnforcingGuard(testSigningKey))
			id := f.recipes.recipes[recipeIndex].ID.String()

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(http.MethodPost, "/recipes/"+id+"/watched", strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(http.MethodPost, "/recipes/"+id+"/watched", nil)
			}
			if tt.token {
				token, err := auth.NewVerifier(testSigningKey).Issue("emp-2", "Mike Chen", auth.RoleEmployee, time.Hour)
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+token)
			}

			w := f.do(req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, f.views.views)
				return
			}
			data := decodeData(t, w)
			assert.Equal(t, tt.wantID, data["employee_id"])
			assert.Equal(t, "Iced Latte", data["recipe_name"])
		})
	}
}

func TestHandlerMarkWatchedIsIdempotent(t *testing.T) {
	f := newFixture(nil)
	id := f.recipes.recipes[4].ID.String()

	for i := 0; i < 3; i++ {
		w := f.do(httptest.NewRequest(http.MethodPost, "/recipes/"+id+"/watched", strings.NewReader(`{"employee_id":"emp-1"}`)))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, f.views.views, 1)

	w := f.do(httptest.NewRequest(http.MethodPost, "/recipes/"+uuid.NewString()+"/watched", strings.NewReader(`{"employee_id":"emp-1"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/recipes/watched?employee_id=emp-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/recipes/watched", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/recipes/"+id+"/views", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerRecipeViewsAreStaffOnly(t *testing.T) {
	f := newFixture(auth.NewEnforcingGuard(testSigningKey))
	id := f.recipes.recipes[0].ID.String()

	token, err := auth.NewVerifier(testSigningKey).Issue("emp-3", "Emma Davis", auth.RoleEmployee, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/recipes/"+id+"/views", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, f.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, f.do(req).Code)
}
