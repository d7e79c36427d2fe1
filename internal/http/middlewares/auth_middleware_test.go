package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogd/internal/auth"
	"blogd/internal/cache"
	"blogd/internal/http/middlewares"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
	calls  int
}

func (f *fakeVerifier) VerifySessionToken(token string) (*auth.Claims, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func protectedRouter(m *middlewares.AuthMiddleware, role string, handlerHit *bool) *gin.Engine {
	r := gin.New()

	mws := []gin.HandlerFunc{m.RequireAuth()}
	if role != "" {
		mws = append(mws, m.RequireRole(role))
	}

	mws = append(mws, func(c *gin.Context) {
		*handlerHit = true
		c.Status(http.StatusOK)
	})

	r.GET("/protected", mws...)

	return r
}

func request(r http.Handler, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	adminClaims := &auth.Claims{UserID: 1, Email: "a@x.com", Role: "admin"}

	tests := []struct {
		name       string
		verifier   *fakeVerifier
		cookie     string
		role       string
		wantStatus int
		wantHit    bool
	}{
		{
			name:       "no cookie",
			verifier:   &fakeVerifier{claims: adminClaims},
			cookie:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			verifier:   &fakeVerifier{err: errors.New("bad token")},
			cookie:     "garbage",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			verifier:   &fakeVerifier{claims: adminClaims},
			cookie:     "good",
			wantStatus: http.StatusOK,
			wantHit:    true,
		},
		{
			name:       "role mismatch",
			verifier:   &fakeVerifier{claims: &auth.Claims{UserID: 2, Role: "user"}},
			cookie:     "good",
			role:       "admin",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role match",
			verifier:   &fakeVerifier{claims: adminClaims},
			cookie:     "good",
			role:       "admin",
			wantStatus: http.StatusOK,
			wantHit:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit := false
			m := middlewares.NewAuthMiddleware(tc.verifier, nil)
			r := protectedRouter(m, tc.role, &hit)

			w := request(r, tc.cookie)

			if w.Code != tc.wantStatus {
				t.Fatalf("status: want %d, got %d", tc.wantStatus, w.Code)
			}

			if hit != tc.wantHit {
				t.Fatalf("handler hit: want %v, got %v", tc.wantHit, hit)
			}

			// gate failures carry no body
			if !tc.wantHit && w.Body.Len() != 0 {
				t.Fatalf("gate failure should have an empty body, got %s", w.Body.String())
			}
		})
	}
}

func TestRequireAuthMemoizesVerifiedTokens(t *testing.T) {
	hit := false
	v := &fakeVerifier{claims: &auth.Claims{UserID: 1, Role: "user"}}
	m := middlewares.NewAuthMiddleware(v, cache.New(time.Minute))
	r := protectedRouter(m, "", &hit)

	for i := 0; i < 3; i++ {
		if w := request(r, "same-token"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}

	if v.calls != 1 {
		t.Fatalf("verifier calls: want 1 (cached afterwards), got %d", v.calls)
	}
}
