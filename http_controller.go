package blogpulse

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the identity endpoints plus the blog post
// endpoints. The gate protects post creation only; registration, login, and
// reads stay public.
func RegisterAuthRoutes[T any](app router.Router[T], gate router.MiddlewareFunc, opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Post(controller.Routes.FederatedLogin, controller.FederatedLoginPost).
		SetName("federated-sign-in.post")

	app.Post(controller.Routes.Posts, controller.PostCreate, gate).
		SetName("posts.create")

	app.Get(controller.Routes.Posts, controller.PostsList).
		SetName("posts.list")

	app.Get(fmt.Sprintf("%s/:id", controller.Routes.Posts), controller.PostShow).
		SetName("posts.show")
}

type AuthControllerRoutes struct {
	Register       string
	Login          string
	FederatedLogin string
	Posts          string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       Authenticator
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: DefaultLogger(),
		Routes: &AuthControllerRoutes{
			Register:       "/register",
			Login:          "/login",
			FederatedLogin: "/federated-login",
			Posts:          "/posts",
		},
	}
	c.ErrorHandler = c.defaultErrHandler

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerRepo sets the repository manager
func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

// WithControllerAuther sets the authenticator driving the identity endpoints
func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerDebug enables payload dumps on identity endpoints
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegistrationCreatePayload is the signup payload
type RegistrationCreatePayload struct {
	DisplayName string `form:"displayName" json:"displayName"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %s", err)
		return a.badRequest(ctx, "All fields are required.")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %s", err)
		return a.badRequest(ctx, err.Error())
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ===")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Register(ctx.Context(), payload.DisplayName, payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"token":   token,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return a.badRequest(ctx, "All fields are required.")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, err.Error())
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}

// FederatedLoginRequest carries the identity provider's signed assertion.
type FederatedLoginRequest struct {
	Token string `form:"assertionToken" json:"assertionToken"`
}

// Validate will run validation rules
func (r FederatedLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

func (a *AuthController) FederatedLoginPost(ctx router.Context) error {
	payload := new(FederatedLoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("federated login parse payload: %s", err)
		return a.badRequest(ctx, "Assertion token is required.")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, err.Error())
	}

	token, err := a.Auther.FederatedLogin(ctx.Context(), payload.Token)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Federated login successful",
		"token":   token,
	})
}

// CreatePostRequest is the authenticated post creation payload. The author
// never comes from the payload, only from the verified session claims.
type CreatePostRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

// Validate will run validation rules
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Content, validation.Required),
	)
}

func (a *AuthController) PostCreate(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, "")
	if !ok {
		return a.ErrorHandler(ctx, ErrCredentialMissing)
	}

	payload := new(CreatePostRequest)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("create post parse payload: %s", err)
		return a.badRequest(ctx, "Title and content are required.")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, err.Error())
	}

	post := &Post{
		Title:   payload.Title,
		Content: payload.Content,
		Author:  authorName(claims),
	}

	record, err := a.Repo.Posts().Create(ctx.Context(), post)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"message": "Post created successfully!",
		"post":    record,
	})
}

func (a *AuthController) PostsList(ctx router.Context) error {
	previews, err := a.Repo.Posts().ListPreviews(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, previews)
}

func (a *AuthController) PostShow(ctx router.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return a.badRequest(ctx, "Invalid post id.")
	}

	record, err := a.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{
				"error": "Blog not found",
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, record)
}

func (a *AuthController) badRequest(ctx router.Context, msg string) error {
	return ctx.JSON(router.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// defaultErrHandler maps rich errors to their HTTP status and a single
// "error" message. Anything without a status stays a 500 and the detail goes
// to the server log, not the client.
func (a *AuthController) defaultErrHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = router.StatusInternalServerError
		}
		if status >= router.StatusInternalServerError {
			a.Logger.Error("request failed: %s", err)
			return ctx.JSON(status, map[string]string{
				"error": "Internal server error",
			})
		}
		return ctx.JSON(status, map[string]string{
			"error": richErr.Message,
		})
	}

	a.Logger.Error("request failed: %s", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

// authorName picks content attribution from claims, display name first with
// the email as fallback.
func authorName(claims AuthClaims) string {
	if claims.DisplayName() != "" {
		return claims.DisplayName()
	}
	return claims.Email()
}
