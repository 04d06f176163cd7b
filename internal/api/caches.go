// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/platform/cache"
	"github.com/taibuivan/blango/internal/platform/config"
	"github.com/taibuivan/blango/internal/platform/constants"
)

// Caches holds the response cache middleware of every cached route group.
// The zero value disables caching.
type Caches struct {
	Posts post.ReadCaches
	Tags  func(http.Handler) http.Handler
	Users func(http.Handler) http.Handler
	Index func(http.Handler) http.Handler

	// InvalidateContent purges post, tag and page entries after writes.
	InvalidateContent func(http.Handler) http.Handler

	// InvalidateUsers purges user entries after profile writes.
	InvalidateUsers func(http.Handler) http.Handler
}

// NewCaches builds the cache layout.
//
//   - Post lists: short TTL, per viewer (Authorization and Cookie).
//   - Own posts: long TTL, per viewer.
//   - Tags and the index page: long TTL, per viewer.
//   - Users: long TTL, shared.
func NewCaches(responseCache *cache.ResponseCache, cfg *config.Config) Caches {
	viewer := []string{constants.HeaderAuthorization, constants.HeaderCookie}

	return Caches{
		Posts: post.ReadCaches{
			List: responseCache.Middleware(constants.CachePosts, cfg.CacheShortTTL, viewer...),
			Mine: responseCache.Middleware(constants.CachePosts, cfg.CacheLongTTL, viewer...),
		},
		Tags:  responseCache.Middleware(constants.CacheTags, cfg.CacheLongTTL, viewer...),
		Users: responseCache.Middleware(constants.CacheUsers, cfg.CacheLongTTL),
		Index: responseCache.Middleware(constants.CachePages, cfg.CacheLongTTL, viewer...),

		InvalidateContent: responseCache.InvalidateOnWrite(constants.CachePosts, constants.CacheTags, constants.CachePages),
		InvalidateUsers:   responseCache.InvalidateOnWrite(constants.CacheUsers),
	}
}

// orIdentity fills unset invalidation hooks so the router can always Use them.
func (caches Caches) orIdentity() Caches {
	identity := func(next http.Handler) http.Handler { return next }
	if caches.InvalidateContent == nil {
		caches.InvalidateContent = identity
	}
	if caches.InvalidateUsers == nil {
		caches.InvalidateUsers = identity
	}
	return caches
}
