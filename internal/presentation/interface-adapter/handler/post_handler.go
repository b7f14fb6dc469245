package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
	"github.com/kanehiroyuu/post-api/internal/usecase"
)

// PostHandler handles post endpoints. Every route requires an authenticated user.
type PostHandler struct{}

// NewPostHandler creates a new PostHandler
func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// CreatePostRequest is the body of POST /v1/post. An empty text is allowed, a missing one is not.
type CreatePostRequest struct {
	Text *string `json:"text" validate:"required"`
}

func newPostInteractor(c echo.Context) *usecase.PostUseCase {
	ctx := c.Request().Context()
	repoLocator := appcontext.GetRepoLocator(ctx)
	return &usecase.PostUseCase{
		Logger: appcontext.GetLogger(ctx),
		RPost:  repoLocator.RPost(),
		CPost:  repoLocator.CPost(),
		Stats:  repoLocator.Metrics(),
	}
}

// CreatePost handles POST /v1/post
func (h *PostHandler) CreatePost(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.create_post")
	defer span.Finish()
	c.SetRequest(c.Request().WithContext(ctx))

	userID, ok := appcontext.GetUserID(ctx)
	if !ok {
		return response.Error(c, apperror.Unauthorized(apperror.UnauthorizedMessage))
	}
	span.SetTag("user.id", userID)

	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		span.SetTag("error.msg", err.Error())
		return response.Error(c, err)
	}

	post, err := newPostInteractor(c).CreatePost(ctx, userID, *req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	span.SetTag("post.id", post.ID)
	return response.Success(c, http.StatusOK, post)
}

// ListPosts handles GET /v1/post
func (h *PostHandler) ListPosts(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.list_posts")
	defer span.Finish()
	c.SetRequest(c.Request().WithContext(ctx))

	userID, ok := appcontext.GetUserID(ctx)
	if !ok {
		return response.Error(c, apperror.Unauthorized(apperror.UnauthorizedMessage))
	}
	span.SetTag("user.id", userID)

	posts, err := newPostInteractor(c).ListPosts(ctx, userID)
	if err != nil {
		return response.Error(c, err)
	}

	span.SetTag("posts.count", len(posts))
	return response.Success(c, http.StatusOK, posts)
}

// DeletePost handles DELETE /v1/post/:id
func (h *PostHandler) DeletePost(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.delete_post")
	defer span.Finish()
	c.SetRequest(c.Request().WithContext(ctx))

	userID, ok := appcontext.GetUserID(ctx)
	if !ok {
		return response.Error(c, apperror.Unauthorized(apperror.UnauthorizedMessage))
	}
	span.SetTag("user.id", userID)

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return response.Error(c, apperror.Validation("id: value is not a valid integer"))
	}
	span.SetTag("post.id", postID)

	if err := newPostInteractor(c).DeletePost(ctx, userID, postID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, http.StatusOK, nil)
}
