package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
)

const testSecret = "0123456789abcdef0123"

func signToken(t *testing.T, claims tokenClaims, secret string) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return raw
}

func validClaims(subject string, roles ...string) tokenClaims {
	return tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "quoteboard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
		Scope: "quotes:read quotes:vote",
	}
}

func jwtConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "quoteboard",
		LoginURL:  "/accounts/login/",
		AdminRole: "admin",
	}
}

func TestClaims(t *testing.T) {
	t.Parallel()

	var nilClaims *Claims

	assert.False(t, nilClaims.Authenticated())
	assert.False(t, (&Claims{}).Authenticated())
	assert.True(t, (&Claims{Subject: "alice"}).Authenticated())

	c := &Claims{Subject: "alice", Roles: []string{"admin", "editor"}}
	assert.True(t, c.HasRole("admin"))
	assert.False(t, c.HasRole("owner"))
}

func TestExtractClaims(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.AuthConfig
		headers map[string]string
		want    *Claims
	}{
		{
			name: "default headers",
			headers: map[string]string{
				"X-User-ID":     " alice ",
				"X-User-Roles":  "admin, editor,,",
				"X-User-Scopes": "quotes:read  quotes:vote",
			},
			want: &Claims{
				Subject: "alice",
				Roles:   []string{"admin", "editor"},
				Scopes:  []string{"quotes:read", "quotes:vote"},
			},
		},
		{
			name:    "custom headers",
			cfg:     &config.AuthConfig{SubjectHeader: "X-Sub", RolesHeader: "X-Roles", ScopesHeader: "X-Scopes"},
			headers: map[string]string{"X-Sub": "bob", "X-Roles": "viewer", "X-User-ID": "ignored"},
			want:    &Claims{Subject: "bob", Roles: []string{"viewer"}},
		},
		{
			name: "anonymous",
			want: &Claims{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, ExtractClaims(c, tt.cfg))
		})
	}
}

func TestParseBearer(t *testing.T) {
	t.Parallel()

	cfg := jwtConfig()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		claims, err := ParseBearer(signToken(t, validClaims("alice", "admin"), testSecret), cfg)
		require.NoError(t, err)

		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, []string{"admin"}, claims.Roles)
		assert.Equal(t, []string{"quotes:read", "quotes:vote"}, claims.Scopes)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		_, err := ParseBearer(signToken(t, validClaims("alice"), "another-secret-value"), cfg)
		assert.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		tc := validClaims("alice")
		tc.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := ParseBearer(signToken(t, tc, testSecret), cfg)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()

		tc := validClaims("alice")
		tc.Issuer = "elsewhere"

		_, err := ParseBearer(signToken(t, tc, testSecret), cfg)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		_, err := ParseBearer("not-a-token", cfg)
		assert.Error(t, err)
	})
}

func authRouter(cfg *config.AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(cfg))
	router.Use(extra...)
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, Subject(c))
	})

	return router
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("bearer token sets subject", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("alice"), testSecret))

		authRouter(jwtConfig()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("missing token is anonymous", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		authRouter(jwtConfig()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("gateway headers ignored in token mode", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-User-ID", "mallory")

		authRouter(jwtConfig()).ServeHTTP(w, req)

		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer nope")

		authRouter(jwtConfig()).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)
	})

	t.Run("header mode without secret", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-User-ID", "bob")

		authRouter(&config.AuthConfig{}).ServeHTTP(w, req)

		assert.Equal(t, "bob", w.Body.String())
	})
}

func TestRequireLogin(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{LoginURL: "/accounts/login/"}

	t.Run("browser request is redirected", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		authRouter(cfg, RequireLogin(cfg)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/accounts/login/", w.Header().Get("Location"))
	})

	t.Run("htmx request gets HX-Redirect", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderHXRequest, "true")

		authRouter(cfg, RequireLogin(cfg)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/accounts/login/", w.Header().Get(HeaderHXRedirect))
		assert.Empty(t, w.Header().Get("Location"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("authenticated request passes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-User-ID", "alice")

		authRouter(cfg, RequireLogin(cfg)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("default login url", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		authRouter(nil, RequireLogin(nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, config.DefaultLoginURL, w.Header().Get("Location"))
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	cfg := &config.AuthConfig{}

	tests := []struct {
		name       string
		subject    string
		roles      string
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "missing role", subject: "bob", roles: "viewer", wantStatus: http.StatusForbidden},
		{name: "has role", subject: "alice", roles: "viewer,admin", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("X-User-ID", tt.subject)
			req.Header.Set("X-User-Roles", tt.roles)

			authRouter(cfg, RequireRole(cfg, "admin")).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(RequireRole(nil, "admin"))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Roles", "admin")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseCommaSeparated(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, parseCommaSeparated(" a ,, b ,"))
	assert.Empty(t, parseCommaSeparated(" , "))
}
