package managertask

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteclub/staffops/pkg/auth"
)

const testSigningKey = "manager-task-test-key"

func newTestRouter(repo *MockTaskRepo, guard *auth.Guard) chi.Router {
	h := NewHandler(repo, guard, aqm.NewConfig(), aqm.NewNoopLogger())
	h.now = func() time.Time { return assignTime }

	r := chi.NewRouter()
	if guard != nil {
		r.Use(guard.Authenticate)
	}
	h.RegisterRoutes(r)
	return r
}

func serve(r chi.Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
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

func bearer(t *testing.T, name string, role auth.Role) string {
	t.Helper()
	token, err := auth.NewVerifier(testSigningKey).Issue("sub-"+name, name, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandlerAssignTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "weekly", body: `{"name":"Update employee schedule","description":"Finalize next week's schedule","task_type":"weekly","day":"Friday"}`, wantStatus: http.StatusCreated},
		{name: "daily", body: `{"name":"Check equipment maintenance","description":"Inspect equipment","task_type":"daily"}`, wantStatus: http.StatusCreated},
		{name: "missingDescription", body: `{"name":"Check","task_type":"daily"}`, wantStatus: http.StatusBadRequest},
		{name: "missingType", body: `{"name":"Check","description":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "emptyBody", body: ``, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTaskRepo{}
			r := newTestRouter(repo, nil)

			w := serve(r, httptest.NewRequest(http.MethodPost, "/manager-tasks", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				data := decodeData(t, w)
				assert.Equal(t, "pending", data["status"])
				assert.Equal(t, "2026-10-16", data["assigned_date"])
				assert.Len(t, repo.tasks, 1)
			} else {
				assert.Empty(t, repo.tasks)
			}
		})
	}
}

func TestHandlerToggleAndList(t *testing.T) {
	repo := &MockTaskRepo{}
	r := newTestRouter(repo, nil)

	for _, body := range []string{
		`{"name":"Review weekly sales report","description":"Analyze sales","task_type":"weekly"}`,
		`{"name":"Check equipment maintenance","description":"Inspect equipment","task_type":"daily"}`,
	} {
		require.Equal(t, http.StatusCreated, serve(r, httptest.NewRequest(http.MethodPost, "/manager-tasks", strings.NewReader(body))).Code)
	}
	id := repo.tasks[1].ID.String()

	w := serve(r, httptest.NewRequest(http.MethodPatch, "/manager-tasks/"+id+"/toggle", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decodeData(t, w)["status"])

	w = serve(r, httptest.NewRequest(http.MethodGet, "/manager-tasks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Len(t, data["pending"], 1)
	assert.Len(t, data["completed"], 1)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/manager-tasks?task_type=weekly", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData(t, w)["completed"], 0)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/manager-tasks?task_type=monthly", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPatch, "/manager-tasks/"+id+"/toggle", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", decodeData(t, w)["status"])
}

func TestHandlerDeleteTask(t *testing.T) {
	repo := &MockTaskRepo{}
	r := newTestRouter(repo, nil)
	require.NoError(t, repo.Create(context.Background(), NewTask("Sweep the floor", "Weekly deep clean", TypeWeekly, assignTime)))
	id := repo.tasks[0].ID.String()

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodDelete, "/manager-tasks/"+id, nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodDelete, "/manager-tasks/"+id, nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodPatch, "/manager-tasks/"+id+"/toggle", nil)).Code)
}

func TestHandlerRoles(t *testing.T) {
	guard := auth.NewEnforcingGuard(testSigningKey)
	repo := &MockTaskRepo{}
	r := newTestRouter(repo, guard)

	body := `{"name":"Finance meeting","description":"Monthly numbers","task_type":"weekly","day":"Monday"}`

	req := httptest.NewRequest(http.MethodPost, "/manager-tasks", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "John Smith", auth.RoleManager))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/manager-tasks", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "Pat Owner", auth.RoleOwner))
	w := serve(r, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pat Owner", decodeData(t, w)["assigned_by"])

	req = httptest.NewRequest(http.MethodPatch, "/manager-tasks/"+repo.tasks[0].ID.String()+"/toggle", nil)
	req.Header.Set("Authorization", bearer(t, "John Smith", auth.RoleManager))
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "John Smith", decodeData(t, w)["completed_by"])

	req = httptest.NewRequest(http.MethodGet, "/manager-tasks", nil)
	req.Header.Set("Authorization", bearer(t, "Emma Davis", auth.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}
