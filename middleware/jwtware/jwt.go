// Package jwtware gates fiber routes behind bearer-token validation.
// It extracts the raw token from the request, hands it to the
// configured TokenValidator, and stores the resulting claims in the
// request locals for downstream authorization checks.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the credentials package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the credentials package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Role() string
	HasRole(role string) bool
}

type Config struct {
	// Filter defines a function to skip the middleware
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the token has been validated
	SuccessHandler fiber.Handler
	// ErrorHandler runs when extraction or validation fails
	ErrorHandler func(*fiber.Ctx, error) error
	// ContextKey stores the validated claims in ctx.Locals
	ContextKey string
	// TokenLookup is a comma separated list of "source:name" entries,
	// e.g. "header:Authorization,cookie:token,query:token"
	TokenLookup string
	// AuthScheme is stripped from header values, e.g. "Bearer"
	AuthScheme string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// RequiredRole, when set, rejects validated tokens lacking the role
	RequiredRole string
}

type extractor func(*fiber.Ctx) (string, error)

// GetDefaultConfig merges user configuration over the defaults
func GetDefaultConfig(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" && strings.HasPrefix(cfg.TokenLookup, "header:") {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

// New returns a fiber middleware that rejects requests without a valid
// bearer token. All validation failure classes collapse to the error
// handler; by default that is a bare 401.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	if cfg.TokenValidator == nil {
		panic("jwtware: TokenValidator is required")
	}

	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := extractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.RequiredRole != "" && !claims.HasRole(cfg.RequiredRole) {
			return cfg.ErrorHandler(c, fiber.ErrForbidden)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.SuccessHandler != nil {
			return cfg.SuccessHandler(c)
		}

		return c.Next()
	}
}

// ClaimsFromContext retrieves validated claims stored by the middleware
func ClaimsFromContext(c *fiber.Ctx, contextKey string) (AuthClaims, bool) {
	claims, ok := c.Locals(contextKey).(AuthClaims)
	return claims, ok
}

func (cfg Config) getExtractors() []extractor {
	entries := strings.Split(cfg.TokenLookup, ",")
	extractors := make([]extractor, 0, len(entries))

	for _, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := parts[0], parts[1]
		switch source {
		case "header":
			extractors = append(extractors, jwtFromHeader(name, cfg.AuthScheme))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(name))
		case "query":
			extractors = append(extractors, jwtFromQuery(name))
		case "param":
			extractors = append(extractors, jwtFromParam(name))
		}
	}

	return extractors
}

func extractRawToken(c *fiber.Ctx, extractors []extractor) (string, error) {
	for _, fn := range extractors {
		if token, err := fn(c); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrJWTMissingOrMalformed
}

func jwtFromHeader(header, authScheme string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		auth := c.Get(header)
		if auth == "" {
			return "", ErrJWTMissingOrMalformed
		}

		if authScheme == "" {
			return auth, nil
		}

		l := len(authScheme)
		if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) {
			return strings.TrimSpace(auth[l+1:]), nil
		}

		return "", ErrJWTMissingOrMalformed
	}
}

func jwtFromCookie(name string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromQuery(name string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromParam(name string) extractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrJWTMissingOrMalformed) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrJWTMissingOrMalformed.Error(),
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "invalid or expired JWT",
	})
}
