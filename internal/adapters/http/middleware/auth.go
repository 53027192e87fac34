package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
)

const (
	// ContextKeyClaims is the gin context key for storing extracted claims.
	ContextKeyClaims = "claims"

	// Default header names if not configured.
	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
	defaultScopesHeader  = "X-User-Scopes"

	// HeaderHXRequest marks requests issued by htmx.
	HeaderHXRequest = "HX-Request"

	// HeaderHXRedirect tells htmx to perform a full-page navigation.
	HeaderHXRedirect = "HX-Redirect"
)

var errInvalidToken = errors.New("invalid bearer token")

// Claims is the caller's identity. An empty Subject means anonymous.
type Claims struct {
	// Subject is the user ID (sub claim).
	Subject string

	// Roles is the list of roles assigned to the user.
	Roles []string

	// Scopes is the list of OAuth2 scopes granted.
	Scopes []string
}

// HasRole checks if the user has the specified role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Authenticated reports whether a subject is present.
func (c *Claims) Authenticated() bool {
	return c != nil && c.Subject != ""
}

// tokenClaims is the JWT payload: registered claims plus roles and an
// OAuth2 space-separated scope string.
type tokenClaims struct {
	jwt.RegisteredClaims

	Roles []string `json:"roles,omitempty"`
	Scope string   `json:"scope,omitempty"`
}

// ExtractClaims extracts user claims from gateway headers.
// Header names are configurable via AuthConfig.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	rolesHeader := defaultRolesHeader
	scopesHeader := defaultScopesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.RolesHeader != "" {
			rolesHeader = cfg.RolesHeader
		}

		if cfg.ScopesHeader != "" {
			scopesHeader = cfg.ScopesHeader
		}
	}

	claims := &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
	}

	// Parse roles (comma-separated)
	if rolesStr := c.GetHeader(rolesHeader); rolesStr != "" {
		claims.Roles = parseCommaSeparated(rolesStr)
	}

	// Parse scopes (space-separated, RFC 6749)
	if scopesStr := c.GetHeader(scopesHeader); scopesStr != "" {
		claims.Scopes = strings.Fields(scopesStr)
	}

	return claims
}

// ParseBearer validates an HS256 token against the configured secret,
// issuer and audience and returns its claims.
func ParseBearer(raw string, cfg *config.AuthConfig) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var tc tokenClaims

	_, err := jwt.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(errInvalidToken, err)
	}

	return &Claims{
		Subject: tc.Subject,
		Roles:   tc.Roles,
		Scopes:  strings.Fields(tc.Scope),
	}, nil
}

// GetClaims retrieves claims from the gin context.
// Returns nil if claims are not present.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// Authenticate resolves the caller's identity for every request.
// With a JWT secret configured the identity comes from an Authorization
// Bearer token; otherwise from gateway headers. Anonymous requests pass
// through with empty claims. A present but invalid token is rejected.
func Authenticate(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.JWTSecret == "" {
			c.Set(ContextKeyClaims, ExtractClaims(c, cfg))
			c.Next()

			return
		}

		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.Set(ContextKeyClaims, &Claims{})
			c.Next()

			return
		}

		claims, err := ParseBearer(strings.TrimSpace(raw), cfg)
		if err != nil {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, errInvalidToken.Error())
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireLogin stops anonymous requests and sends them to the login page.
// htmx requests get 200 with an HX-Redirect header so the browser performs
// a full navigation; everything else gets a 302.
func RequireLogin(cfg *config.AuthConfig) gin.HandlerFunc {
	loginURL := config.DefaultLoginURL
	if cfg != nil && cfg.LoginURL != "" {
		loginURL = cfg.LoginURL
	}

	return func(c *gin.Context) {
		if getOrExtractClaims(c, cfg).Authenticated() {
			c.Next()
			return
		}

		if c.GetHeader(HeaderHXRequest) == "true" {
			c.Header(HeaderHXRedirect, loginURL)
			c.AbortWithStatus(http.StatusOK)

			return
		}

		c.Redirect(http.StatusFound, loginURL)
		c.Abort()
	}
}

// RequireRole returns middleware that requires a specific role.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getOrExtractClaims(c, cfg)

		if !claims.Authenticated() {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "authentication required")
			return
		}

		if !claims.HasRole(role) {
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, "insufficient permissions: role "+role+" required")
			return
		}

		c.Next()
	}
}

// getOrExtractClaims gets claims from context or extracts them from headers.
func getOrExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}

// parseCommaSeparated splits a comma-separated string into trimmed values.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
