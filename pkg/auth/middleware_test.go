package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestGuardRequire(t *testing.T) {
	v := NewVerifier("k")
	ownerToken, _ := v.Issue("o1", "Olivia", RoleOwner, time.Hour)
	managerToken, _ := v.Issue("m1", "Marco", RoleManager, time.Hour)

	tests := []struct {
		name           string
		guard          *Guard
		token          string
		expectedStatus int
	}{
		{name: "permissiveWithoutToken", guard: NewPermissiveGuard(), expectedStatus: http.StatusOK},
		{name: "enforcingWithoutToken", guard: NewEnforcingGuard("k"), expectedStatus: http.StatusUnauthorized},
		{name: "enforcingOwner", guard: NewEnforcingGuard("k"), token: ownerToken, expectedStatus: http.StatusOK},
		{name: "enforcingManagerDenied", guard: NewEnforcingGuard("k"), token: managerToken, expectedStatus: http.StatusForbidden},
		{name: "enforcingBadToken", guard: NewEnforcingGuard("k"), token: "bogus", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.guard.Authenticate(tt.guard.Require(RoleOwner)(http.HandlerFunc(okHandler)))

			req := httptest.NewRequest(http.MethodPost, "/requests/1/approve", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestActorFrom(t *testing.T) {
	v := NewVerifier("k")
	token, _ := v.Issue("m1", "Marco", RoleManager, time.Hour)
	g := NewPermissiveGuard()
	g.verifier = v

	var actor string
	h := g.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFrom(r.Context(), "anonymous")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if actor != "Marco" {
		t.Errorf("actor = %q, want Marco", actor)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if actor != "anonymous" {
		t.Errorf("actor = %q, want anonymous", actor)
	}
}
