package context

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := GetUserID(SetUserID(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, 9, id)

	_, ok = GetUserID(SetUserID(context.Background(), 0))
	assert.False(t, ok)
}

func TestRepoLocator(t *testing.T) {
	assert.Nil(t, GetRepoLocator(context.Background()))

	locator := &RepoLocator{}
	ctx := SetRepoLocator(context.Background(), locator)
	assert.Same(t, locator, GetRepoLocator(ctx))
	assert.NotNil(t, locator.Metrics())
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := logrus.New()
	assert.Same(t, logger, GetLogger(SetLogger(context.Background(), logger)))
}
