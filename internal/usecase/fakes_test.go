package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/kanehiroyuu/post-api/internal/domain"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  int
	byEmail map[string]*entities.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entities.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return domain.ErrDuplicateRecord
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.byEmail[key] = &stored
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, domain.ErrRecordNotFound
}

// fakePostRepo counts FindByUser calls so tests can tell cache hits from store reads
type fakePostRepo struct {
	mu             sync.Mutex
	nextID         int
	posts          []*entities.Post
	findByUserHits int
	deletes        int
}

func (r *fakePostRepo) Create(_ context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	stored := *post
	r.posts = append(r.posts, &stored)
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id int) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakePostRepo) FindByUser(_ context.Context, userID int) ([]*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByUserHits++
	out := make([]*entities.Post, 0)
	for _, p := range r.posts {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			r.deletes++
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (r *fakePostRepo) storeHits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByUserHits
}

type cacheEntry struct {
	posts     []*entities.Post
	expiresAt time.Time
}

// fakePostCache expires entries against a controllable clock
type fakePostCache struct {
	mu      sync.Mutex
	now     time.Time
	ttl     time.Duration
	entries map[int]cacheEntry
	puts    map[int]int
	err     error
}

func newFakePostCache() *fakePostCache {
	return &fakePostCache{
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ttl:     300 * time.Second,
		entries: map[int]cacheEntry{},
		puts:    map[int]int{},
	}
}

func (c *fakePostCache) Get(_ context.Context, userID int) ([]*entities.Post, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	e, ok := c.entries[userID]
	if !ok || !c.now.Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.posts, true, nil
}

func (c *fakePostCache) Put(_ context.Context, userID int, posts []*entities.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[userID] = cacheEntry{posts: posts, expiresAt: c.now.Add(c.ttl)}
	c.puts[userID]++
	return nil
}

func (c *fakePostCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakePostCache) putCount(userID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts[userID]
}

var errBackend = errors.New("backend unavailable")
