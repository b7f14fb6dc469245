package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/domain"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// DuplicateEmailMessage is returned when signing up with a registered address
const DuplicateEmailMessage = "A user already exists in the system with this email address"

// UserUseCase implements signup and login
type UserUseCase struct {
	Logger port.Logger
	RUser  port.UserRepository
	Hasher port.PasswordHasher
	Tokens port.TokenIssuer
}

// LoginResult is an issued access token
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Signup registers a new user. Emails are unique regardless of case.
func (uc *UserUseCase) Signup(ctx context.Context, email, password string) (*entities.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.signup")
	defer span.Finish()

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Signing up user", nil)

	_, err := uc.RUser.FindByEmail(ctx, email)
	switch {
	case err == nil:
		span.SetTag("signup.duplicate", true)
		logging.LogWarnWithTrace(ctx, uc.Logger, "usecase", "Signup rejected, email already registered", nil)
		return nil, apperror.Duplicate(DuplicateEmailMessage)
	case !errors.Is(err, domain.ErrRecordNotFound):
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to look up user by email", err, nil)
		return nil, apperror.Internal("failed to look up user", err)
	}

	hash, err := uc.Hasher.Hash(password)
	if err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to hash password", err, nil)
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := uc.RUser.Create(ctx, user); err != nil {
		// a concurrent signup can win the race between lookup and insert
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, apperror.Duplicate(DuplicateEmailMessage)
		}
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create user in repository", err, nil)
		return nil, apperror.Internal("failed to create user", err)
	}

	span.SetTag("user.id", user.ID)
	logging.LogWithTrace(ctx, uc.Logger, "usecase", "User created", logrus.Fields{
		"user.id": user.ID,
	})
	return user, nil
}

// Login verifies credentials and issues an access token.
// Unknown email and wrong password fail identically.
func (uc *UserUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.login")
	defer span.Finish()

	user, err := uc.RUser.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			span.SetTag("login.success", false)
			logging.LogWarnWithTrace(ctx, uc.Logger, "usecase", "Login failed", nil)
			return nil, apperror.InvalidCredentials()
		}
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to look up user by email", err, nil)
		return nil, apperror.Internal("failed to look up user", err)
	}

	if !uc.Hasher.Verify(password, user.PasswordHash) {
		span.SetTag("login.success", false)
		logging.LogWarnWithTrace(ctx, uc.Logger, "usecase", "Login failed", logrus.Fields{
			"user.id": user.ID,
		})
		return nil, apperror.InvalidCredentials()
	}

	token, expiresAt, err := uc.Tokens.Issue(ctx, user.ID)
	if err != nil {
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to issue token", err, nil)
		return nil, apperror.Internal("failed to issue token", err)
	}

	span.SetTag("login.success", true)
	span.SetTag("user.id", user.ID)
	logging.LogWithTrace(ctx, uc.Logger, "usecase", "User logged in", logrus.Fields{
		"user.id": user.ID,
	})
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}
