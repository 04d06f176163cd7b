// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/users/auth"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Users

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]*auth.User{}}
}

func (users *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	if user, ok := users.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (users *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	for _, user := range users.byID {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (users *memoryUsers) Create(_ context.Context, user *auth.User) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	for _, existing := range users.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("User already exists")
		}
	}
	users.nextID++
	user.ID = users.nextID
	user.DateJoined = time.Now()
	copied := *user
	users.byID[user.ID] = &copied
	return nil
}

func (users *memoryUsers) deactivate(id int64) {
	users.mu.Lock()
	defer users.mu.Unlock()
	users.byID[id].IsActive = false
}

// # Tokens

type memoryTokens struct {
	mu    sync.Mutex
	keys  map[int64]string
	users *memoryUsers
}

func (tokens *memoryTokens) GetOrCreate(_ context.Context, userID int64, candidate string) (string, error) {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	if key, ok := tokens.keys[userID]; ok {
		return key, nil
	}
	tokens.keys[userID] = candidate
	return candidate, nil
}

func (tokens *memoryTokens) FindUser(ctx context.Context, key string) (*auth.User, error) {
	tokens.mu.Lock()
	var owner int64
	for userID, stored := range tokens.keys {
		if stored == key {
			owner = userID
		}
	}
	tokens.mu.Unlock()

	if owner == 0 {
		return nil, apperr.NotFound("Token")
	}
	return tokens.users.FindByID(ctx, owner)
}

// # Sessions

type memorySessions struct {
	mu   sync.Mutex
	data map[string]auth.SessionData
}

func (sessions *memorySessions) Create(_ context.Context, id string, data auth.SessionData, _ time.Duration) error {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	sessions.data[id] = data
	return nil
}

func (sessions *memorySessions) Get(_ context.Context, id string) (*auth.SessionData, error) {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	if data, ok := sessions.data[id]; ok {
		return &data, nil
	}
	return nil, nil
}

func (sessions *memorySessions) Delete(_ context.Context, id string) error {
	sessions.mu.Lock()
	defer sessions.mu.Unlock()
	delete(sessions.data, id)
	return nil
}

// # Fixture

const password = "correct-horse"

type fixture struct {
	users    *memoryUsers
	sessions *memorySessions
	tokens   *sec.TokenService
	service  *auth.Service
	ann      *auth.User
	staff    *auth.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokenService := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "blango.test")

	users := newMemoryUsers()
	sessions := &memorySessions{data: map[string]auth.SessionData{}}
	service := auth.NewService(
		users,
		&memoryTokens{keys: map[int64]string{}, users: users},
		sessions,
		tokenService,
		auth.Lifetimes{Access: 5 * time.Minute, Refresh: 24 * time.Hour, Session: time.Hour},
		discard,
	)

	ann, err := service.CreateUser(context.Background(), auth.CreateUserInput{
		Email: "Ann@Example.com", Password: password, FirstName: "Ann",
	})
	require.NoError(t, err)
	staff, err := service.CreateUser(context.Background(), auth.CreateUserInput{
		Email: "sally@example.com", Password: password, IsStaff: true,
	})
	require.NoError(t, err)

	return &fixture{users: users, sessions: sessions, tokens: tokenService, service: service, ann: ann, staff: staff}
}

func status(err error) int {
	if appError := apperr.As(err); appError != nil {
		return appError.HTTPStatus
	}
	return 0
}
