package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
	"github.com/kanehiroyuu/post-api/internal/usecase"
)

// UserHandler handles signup and login
type UserHandler struct{}

// NewUserHandler creates a new UserHandler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// CredentialsRequest is the body of signup and login. The email bound matches the users.email column.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,max=320,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Signup handles POST /v1/user
func (h *UserHandler) Signup(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.signup")
	defer span.Finish()
	c.SetRequest(c.Request().WithContext(ctx))

	logger := appcontext.GetLogger(ctx)
	repoLocator := appcontext.GetRepoLocator(ctx)

	interactor := &usecase.UserUseCase{
		Logger: logger,
		RUser:  repoLocator.RUser(),
		Hasher: repoLocator.Hasher,
		Tokens: repoLocator.Tokens,
	}

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		span.SetTag("error.msg", err.Error())
		return response.Error(c, err)
	}

	user, err := interactor.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	span.SetTag("user.id", user.ID)
	logging.LogWithTrace(ctx, logger, "handler", "User signed up", logrus.Fields{
		"user.id": user.ID,
	})
	return response.Success(c, http.StatusOK, user)
}

// Login handles POST /v1/user/login
func (h *UserHandler) Login(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.login")
	defer span.Finish()
	c.SetRequest(c.Request().WithContext(ctx))

	logger := appcontext.GetLogger(ctx)
	repoLocator := appcontext.GetRepoLocator(ctx)

	interactor := &usecase.UserUseCase{
		Logger: logger,
		RUser:  repoLocator.RUser(),
		Hasher: repoLocator.Hasher,
		Tokens: repoLocator.Tokens,
	}

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		span.SetTag("error.msg", err.Error())
		return response.Error(c, err)
	}

	result, err := interactor.Login(ctx, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt.UTC(),
	})
}

// bindAndValidate decodes the JSON body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return err
		}
		return apperror.Validation("body: value is not a valid JSON object")
	}
	return c.Validate(req)
}
