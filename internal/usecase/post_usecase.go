package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/domain"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const (
	// InvalidPostMessage is returned when deleting a post that does not exist
	InvalidPostMessage = "Invalid post specified"
	// ForbiddenPostMessage is returned when deleting someone else's post
	ForbiddenPostMessage = "You don't have permission to delete this post"
)

// PostUseCase implements post listing, creation and deletion with a per-user list cache
type PostUseCase struct {
	Logger port.Logger
	RPost  port.PostRepository
	CPost  port.PostCache
	Stats  port.Metrics
}

// ListPosts returns the user's posts in store order. A cache hit never touches the store.
func (uc *PostUseCase) ListPosts(ctx context.Context, userID int) ([]*entities.Post, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.list_posts")
	defer span.Finish()

	span.SetTag("user.id", userID)

	posts, found, err := uc.CPost.Get(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to read post cache", err, logrus.Fields{
			"user.id": userID,
		})
		return nil, apperror.Internal("failed to read post cache", err)
	}
	if found {
		span.SetTag("cache.hit", true)
		span.SetTag("data.source", "cache")
		uc.count("post.cache.hit")
		logging.LogDebugWithTrace(ctx, uc.Logger, "usecase", "Posts found in cache", logrus.Fields{
			"user.id":     userID,
			"posts.count": len(posts),
		})
		return posts, nil
	}

	span.SetTag("cache.hit", false)
	span.SetTag("data.source", "database")
	uc.count("post.cache.miss")
	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Cache miss, fetching posts from database", logrus.Fields{
		"user.id": userID,
	})

	posts, err = uc.loadAndCache(ctx, userID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}
	span.SetTag("posts.count", len(posts))
	return posts, nil
}

// CreatePost stores a post for userID and refreshes the user's cached list before returning
func (uc *PostUseCase) CreatePost(ctx context.Context, userID int, text string) (*entities.Post, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.create_post")
	defer span.Finish()

	span.SetTag("user.id", userID)
	span.SetTag("post.length", len(text))

	if len(text) > entities.MaxPostTextBytes {
		return nil, apperror.Validation(fmt.Sprintf("text: ensure this value has at most %d bytes", entities.MaxPostTextBytes))
	}

	post := &entities.Post{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := uc.RPost.Create(ctx, post); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create post in repository", err, logrus.Fields{
			"user.id": userID,
		})
		return nil, apperror.Internal("failed to create post", err)
	}

	span.SetTag("post.id", post.ID)
	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Post created, refreshing cache", logrus.Fields{
		"user.id": userID,
		"post.id": post.ID,
	})

	if err := uc.refreshPostCache(ctx, userID); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes one of userID's own posts and refreshes the user's cached list.
// Another user's post is left untouched and reported as forbidden.
func (uc *PostUseCase) DeletePost(ctx context.Context, userID, postID int) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.delete_post")
	defer span.Finish()

	span.SetTag("user.id", userID)
	span.SetTag("post.id", postID)

	post, err := uc.RPost.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return apperror.NotFound(InvalidPostMessage)
		}
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to fetch post", err, logrus.Fields{
			"post.id": postID,
		})
		return apperror.Internal("failed to fetch post", err)
	}

	if post.UserID != userID {
		span.SetTag("post.owner_mismatch", true)
		logging.LogWarnWithTrace(ctx, uc.Logger, "usecase", "Refusing to delete post owned by another user", logrus.Fields{
			"user.id": userID,
			"post.id": postID,
		})
		return apperror.Forbidden(ForbiddenPostMessage)
	}

	if err := uc.RPost.Delete(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return apperror.NotFound(InvalidPostMessage)
		}
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to delete post in repository", err, logrus.Fields{
			"post.id": postID,
		})
		return apperror.Internal("failed to delete post", err)
	}

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Post deleted, refreshing cache", logrus.Fields{
		"user.id": userID,
		"post.id": postID,
	})

	return uc.refreshPostCache(ctx, userID)
}

// refreshPostCache re-reads the user's posts and overwrites the cache entry
func (uc *PostUseCase) refreshPostCache(ctx context.Context, userID int) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.refresh_post_cache")
	defer span.Finish()

	span.SetTag("user.id", userID)
	uc.count("post.cache.refresh")

	if _, err := uc.loadAndCache(ctx, userID); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return err
	}
	return nil
}

func (uc *PostUseCase) loadAndCache(ctx context.Context, userID int) ([]*entities.Post, error) {
	posts, err := uc.RPost.FindByUser(ctx, userID)
	if err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to fetch posts from repository", err, logrus.Fields{
			"user.id": userID,
		})
		return nil, apperror.Internal("failed to fetch posts", err)
	}

	if err := uc.CPost.Put(ctx, userID, posts); err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to write post cache", err, logrus.Fields{
			"user.id": userID,
		})
		return nil, apperror.Internal("failed to write post cache", err)
	}
	return posts, nil
}

func (uc *PostUseCase) count(name string) {
	if uc.Stats == nil {
		return
	}
	_ = uc.Stats.Incr(name, nil, 1)
}
