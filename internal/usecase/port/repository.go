package port

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/sirupsen/logrus"
)

// UserRepository is a port for the credential store
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	// FindByEmail matches case-insensitively
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

// PostRepository is a port for the post store
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	FindByID(ctx context.Context, id int) (*entities.Post, error)
	// FindByUser returns a non-nil slice in the store's natural order
	FindByUser(ctx context.Context, userID int) ([]*entities.Post, error)
	Delete(ctx context.Context, id int) error
}

// CacheRepository is a port for a raw key/value cache with expiry.
// A miss is reported as found == false with a nil error.
type CacheRepository interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Ping(ctx context.Context) error
}

// PostCache caches the full post list of one user.
// Get never touches the post store; an empty list is a hit, not a miss.
type PostCache interface {
	Get(ctx context.Context, userID int) (posts []*entities.Post, found bool, err error)
	Put(ctx context.Context, userID int, posts []*entities.Post) error
}

// PasswordHasher is a port for one-way password hashing
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer issues bearer tokens for a subject
type TokenIssuer interface {
	Issue(ctx context.Context, userID int) (token string, expiresAt time.Time, err error)
}

// TokenVerifier validates bearer tokens and returns their subject
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID int, err error)
}

// Metrics is a port for DogStatsD style counters and timings
type Metrics = statsd.ClientInterface

// Logger is a port for logger
type Logger = *logrus.Logger
