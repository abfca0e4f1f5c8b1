package credentials

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

type AuthControllerRoutes struct {
	Login    string
	Register string
	Me       string
}

// AuthController is the thin JSON transport over the credential core.
// It shapes requests and responses; every decision happens below it.
type AuthController struct {
	Logger       Logger
	Auth         Authenticator
	Registrar    *Registrar
	Routes       *AuthControllerRoutes
	ContextKey   string
	ErrorHandler func(*fiber.Ctx, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(auther Authenticator, registrar *Registrar, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		Auth:       auther,
		Registrar:  registrar,
		ContextKey: "user",
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
			Me:       "/auth/me",
		},
	}

	c.ErrorHandler = DefaultErrorHandler(c.Logger)

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		c.ErrorHandler = DefaultErrorHandler(logger)
		return c
	}
}

func WithContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ContextKey = key
		return c
	}
}

// RegisterAuthRoutes mounts the controller. Login and registration are
// anonymous; the claims echo endpoint sits behind the gate middleware.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, gate fiber.Handler) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Get(controller.Routes.Me, gate, controller.Me)
}

type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p CredentialsPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := CredentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse login payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, "invalid login payload"))
	}

	result, err := a.Auth.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(result)
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := CredentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse registration payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload"))
	}

	user, err := a.Registrar.Register(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	// The model hides the password hash from serialization; the caller
	// only ever sees public fields.
	return c.JSON(user)
}

// Me echoes the identity carried by a validated token, the way a
// downstream authorization check would consume it.
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, err := GetSession(c, a.ContextKey)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(session)
}
