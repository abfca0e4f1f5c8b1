package credentials

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-credentials/middleware/jwtware"
	"github.com/goliatone/go-errors"
)

// tokenValidatorAdapter re-types TokenService.Validate for jwtware,
// which mirrors the claims interface to avoid an import cycle.
type tokenValidatorAdapter struct {
	validator TokenValidator
}

func (a tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := a.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ProtectedRoute builds the request-gating middleware for routes that
// require a prior-validated token.
func ProtectedRoute(cfg Config, validator TokenValidator, errorHandler func(*fiber.Ctx, error) error) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		AuthScheme:     cfg.GetAuthScheme(),
		TokenValidator: tokenValidatorAdapter{validator},
	})
}

// GetSession pulls the validated claim set stored by the gating
// middleware out of the request locals.
func GetSession(c *fiber.Ctx, key string) (AuthClaims, error) {
	local := c.Locals(key)
	if local == nil {
		return nil, ErrUnableToMapClaims
	}

	claims, ok := local.(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	return claims, nil
}

// DefaultErrorHandler maps core outcomes to transport statuses. Every
// authentication failure renders the same body, so login with a bad
// email and login with a bad password are indistinguishable on the
// wire, and all token validation classes collapse to 401.
func DefaultErrorHandler(logger Logger) func(*fiber.Ctx, error) error {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			if IsTokenExpiredError(err) || IsMalformedError(err) {
				return unauthorizedResponse(c)
			}
			logger.Error("Unexpected transport error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryAuthz:
			logger.Info("Authentication rejected", "text_code", richErr.TextCode)
			return unauthorizedResponse(c)
		case errors.CategoryConflict, errors.CategoryValidation, errors.CategoryBadInput:
			status := richErr.Code
			if status == 0 {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error":     richErr.Message,
				"text_code": richErr.TextCode,
			})
		default:
			logger.Error("Request failed", "category", richErr.Category, "error", richErr.Message)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}
}

func unauthorizedResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
