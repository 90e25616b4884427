package rest

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	workhive "github.com/workhive/workhive"
)

// AuthController exposes the credential exchange endpoints
type AuthController struct {
	Debug     bool
	Logger    Logger
	Auther    workhive.Authenticator
	Registrar *workhive.RegisterAccountHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Logger == nil {
		panic("Missing Logger in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAuthenticator(auther workhive.Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithRegistrar(registrar *workhive.RegisterAccountHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Registrar = registrar
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterRoutes mounts the public auth endpoints
func (a *AuthController) RegisterRoutes(app fiber.Router) {
	app.Post("/auth/login", a.LoginPost)
	app.Post("/auth/refresh", a.RefreshPost)
	app.Post("/auth/logout", a.LogoutPost)

	if a.Registrar != nil {
		app.Post("/auth/register", a.RegisterPost)
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost exchanges an email/password pair for a token pair. Input shape
// failures come back as 400 before any store access; every credential failure
// is the same 401 body.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload", "error", err)
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	result, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return RenderError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "login successful",
		"user":          result.Account,
		"token":         result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.RefreshToken,
			validation.Required,
		),
	)
}

// RefreshPost redeems a refresh token for a new access token
func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	if err := payload.Validate(); err != nil {
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	token, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return RenderError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "token refreshed",
		"token":   token,
	})
}

// LogoutPost is advisory: tokens are stateless so the server keeps no session
// to destroy. Clients drop their copies; the response exists so the flow has
// a uniform shape.
func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Role            string `form:"role" json:"role"`
	Headline        string `form:"headline" json:"headline"`
	Company         string `form:"company" json:"company"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Role, validation.Required, validation.In(
			string(workhive.RoleCandidate),
			string(workhive.RoleEmployer),
		)),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(validateStringEquals(r.Password)),
		),
	)
}

// RegisterPost creates an account. Admin accounts are provisioned out of
// band, so the public payload only accepts the two marketplace roles.
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return RenderError(c, a.Logger, ValidationFailed(err))
	}

	account, err := a.Registrar.Execute(c.UserContext(), workhive.RegisterAccountMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Role:      payload.Role,
		Headline:  payload.Headline,
		Company:   payload.Company,
		Password:  payload.Password,
	})
	if err != nil {
		a.Logger.Error("register execute", "error", err)
		return RenderError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created",
		"user":    account,
	})
}

func validateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return fmt.Errorf("passwords do not match")
		}
		return nil
	}
}
