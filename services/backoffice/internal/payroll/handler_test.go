package payroll

import (
	"bytes"
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
	"github.com/xuri/excelize/v2"

	"github.com/appetiteclub/staffops/pkg/auth"
)

const testSigningKey = "payroll-test-key"

func newTestRouter(repo *MockEntryRepo, guard *auth.Guard) chi.Router {
	h := NewHandler(repo, guard, aqm.NewConfig(), aqm.NewNoopLogger())
	h.now = func() time.Time { return payrollTime }

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

func TestHandlerCreateEntry(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "valid",
			body:       `{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":"600.00","period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missingName",
			body:       `{"employee_name":" ","days_worked":6,"pay_rate":600,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "employee_name is required",
		},
		{
			name:       "missingDays",
			body:       `{"employee_name":"Sarah Johnson","pay_rate":600,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "days_worked is required",
		},
		{
			name:       "zeroDays",
			body:       `{"employee_name":"Sarah Johnson","days_worked":0,"pay_rate":600,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "days_worked must be greater than 0",
		},
		{
			name:       "fractionalDays",
			body:       `{"employee_name":"Sarah Johnson","days_worked":2.5,"pay_rate":600,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zeroRate",
			body:       `{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":0,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    ErrInvalidRate.Error(),
		},
		{
			name:       "subCentavoRate",
			body:       `{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":0.005,"period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    ErrRatePrecision.Error(),
		},
		{
			name:       "malformedRate",
			body:       `{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":"six hundred","period":"Oct 16-22, 2025"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missingPeriod",
			body:       `{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":600}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "period is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockEntryRepo{}
			r := newTestRouter(repo, nil)

			w := serve(r, httptest.NewRequest(http.MethodPost, "/payroll", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantErr != "" {
				assert.Contains(t, w.Body.String(), tt.wantErr)
			}

			if tt.wantStatus != http.StatusCreated {
				assert.Equal(t, 0, repo.Len(), "no partial save")
				return
			}
			data := decodeData(t, w)
			assert.Equal(t, 3600.0, data["total_pay"])
			assert.Equal(t, "PHP", data["currency"])
			assert.Equal(t, 1, repo.Len())
		})
	}
}

func TestHandlerCreateEntryIgnoresClientTotal(t *testing.T) {
	repo := &MockEntryRepo{}
	r := newTestRouter(repo, nil)

	body := `{"employee_name":"Mike Chen","days_worked":5,"pay_rate":650,"period":"Oct 16-22, 2025","total_pay":1}`
	w := serve(r, httptest.NewRequest(http.MethodPost, "/payroll", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3250.0, decodeData(t, w)["total_pay"])
}

func TestHandlerPayrollRequiresStaff(t *testing.T) {
	guard := auth.NewEnforcingGuard(testSigningKey)
	r := newTestRouter(&MockEntryRepo{}, guard)

	token, err := auth.NewVerifier(testSigningKey).Issue("emp-1", "Emma Davis", auth.RoleEmployee, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	token, err = auth.NewVerifier(testSigningKey).Issue("own-1", "Pat Owner", auth.RoleOwner, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func seedEntries(t *testing.T, r chi.Router) {
	t.Helper()
	bodies := []string{
		`{"employee_name":"Sarah Johnson","days_worked":6,"pay_rate":600,"period":"Oct 16-22, 2025"}`,
		`{"employee_name":"Mike Chen","days_worked":5,"pay_rate":650,"period":"Oct 16-22, 2025"}`,
		`{"employee_name":"Emma Davis","days_worked":3,"pay_rate":"550.50","period":"Oct 9-15, 2025"}`,
	}
	for _, b := range bodies {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/payroll", strings.NewReader(b)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestHandlerListEntries(t *testing.T) {
	r := newTestRouter(&MockEntryRepo{}, nil)
	seedEntries(t, r)

	tests := []struct {
		name      string
		query     string
		wantCount float64
		wantTotal float64
	}{
		{name: "allPeriods", wantCount: 3, wantTotal: 8501.5},
		{name: "onePeriod", query: "?period=Oct+16-22%2C+2025", wantCount: 2, wantTotal: 6850},
		{name: "unknownPeriod", query: "?period=Nov", wantCount: 0, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, "/payroll"+tt.query, nil))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			data := decodeData(t, w)
			assert.Equal(t, tt.wantCount, data["count"])
			assert.Equal(t, tt.wantTotal, data["total"])
			assert.Len(t, data["entries"], int(tt.wantCount))
		})
	}
}

func TestHandlerListEntriesError(t *testing.T) {
	r := newTestRouter(&MockEntryRepo{ListErr: errDatabase}, nil)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/payroll", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlerGetSummary(t *testing.T) {
	r := newTestRouter(&MockEntryRepo{}, nil)
	seedEntries(t, r)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/payroll/summary", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, 8501.5, data["total_payroll"])
	assert.Equal(t, 3.0, data["entries"])
	assert.Len(t, data["periods"], 2)
}

func TestHandlerGetEntry(t *testing.T) {
	repo := &MockEntryRepo{}
	r := newTestRouter(repo, nil)
	seedEntries(t, r)

	id := repo.entries[0].ID.String()
	w := serve(r, httptest.NewRequest(http.MethodGet, "/payroll/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sarah Johnson", decodeData(t, w)["employee_name"])

	w = serve(r, httptest.NewRequest(http.MethodGet, "/payroll/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerEntriesAreImmutable(t *testing.T) {
	repo := &MockEntryRepo{}
	r := newTestRouter(repo, nil)
	seedEntries(t, r)

	id := repo.entries[0].ID.String()
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w := serve(r, httptest.NewRequest(method, "/payroll/"+id, strings.NewReader(`{"days_worked":1}`)))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}

func TestHandlerExportEntries(t *testing.T) {
	r := newTestRouter(&MockEntryRepo{}, nil)
	seedEntries(t, r)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/payroll/export?period=Oct+9-15%2C+2025", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll-oct-9-15-2025.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Emma Davis", rows[1][0])
	assert.Equal(t, "1651.5", rows[1][4])
}
