// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides a response cache for read endpoints.

Cached entries are keyed by namespace, origin, request URI and the values of
the headers the response varies on, so different viewers never share an entry
when their credentials differ.

Lifecycle:

  - [ResponseCache.Middleware] serves GET/HEAD from the cache or records a 200 response.
  - [ResponseCache.InvalidateOnWrite] purges namespaces after a successful write.
  - Any backend failure degrades to pass-through and is logged at warn.
*/
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/middleware"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
)

const (
	// StatusHit is the X-Cache value of a response served from the cache.
	StatusHit = "HIT"
	// StatusMiss is the X-Cache value of a response produced by the handler.
	StatusMiss = "MISS"
)

// entry is the stored form of a cached response.
type entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache caches whole HTTP responses in a [Backend].
type ResponseCache struct {
	backend Backend
	prefix  string
}

// New creates a response cache whose keys start with [constants.RedisPrefixResponse].
func New(backend Backend) *ResponseCache {
	return &ResponseCache{backend: backend, prefix: constants.RedisPrefixResponse}
}

// Key builds the cache key of a request inside namespace.
//
// The scheme and host are part of the key since representations embed
// absolute hyperlinks built from them.
func (responseCache *ResponseCache) Key(namespace string, request *http.Request, vary ...string) string {
	hash := sha256.New()
	hash.Write([]byte(requestutil.BaseURL(request)))
	hash.Write([]byte(request.URL.RequestURI()))
	for _, header := range vary {
		hash.Write([]byte{'\n'})
		hash.Write([]byte(header))
		hash.Write([]byte{'='})
		hash.Write([]byte(request.Header.Get(header)))
	}
	return responseCache.namespacePrefix(namespace) + hex.EncodeToString(hash.Sum(nil))
}

func (responseCache *ResponseCache) namespacePrefix(namespace string) string {
	return responseCache.prefix + namespace + ":"
}

// Middleware caches successful GET and HEAD responses for ttl.
//
// vary names the request headers that distinguish entries, typically
// Authorization and Cookie for endpoints whose output depends on the viewer.
func (responseCache *ResponseCache) Middleware(namespace string, ttl time.Duration, vary ...string) func(http.Handler) http.Handler {
	varyHeader := strings.Join(vary, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodGet && request.Method != http.MethodHead {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)
			key := responseCache.Key(namespace, request, vary...)

			if varyHeader != "" {
				writer.Header().Add("Vary", varyHeader)
			}

			// 1. Serve from the cache when possible
			if cached, ok := responseCache.lookup(ctx, logger, key); ok {
				writer.Header().Set("Content-Type", cached.ContentType)
				writer.Header().Set(constants.HeaderXCache, StatusHit)
				writer.WriteHeader(cached.Status)
				if request.Method == http.MethodGet {
					_, _ = writer.Write(cached.Body)
				}
				return
			}

			// 2. Run the handler while recording its output
			writer.Header().Set(constants.HeaderXCache, StatusMiss)
			recorder := &recordingWriter{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request)

			// 3. Store only complete 200 GET responses
			if request.Method != http.MethodGet || recorder.status != http.StatusOK {
				return
			}

			payload, err := json.Marshal(entry{
				Status:      recorder.status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
			if err != nil {
				return
			}

			if err := responseCache.backend.Set(ctx, key, payload, ttl); err != nil {
				logger.WarnContext(ctx, "cache_set_failed", slog.String("namespace", namespace), slog.Any("error", err))
			}
		})
	}
}

func (responseCache *ResponseCache) lookup(ctx context.Context, logger *slog.Logger, key string) (*entry, bool) {
	raw, found, err := responseCache.backend.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "cache_get_failed", slog.Any("error", err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var cached entry
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger.WarnContext(ctx, "cache_entry_corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return &cached, true
}

// Purge removes every entry of the given namespaces.
func (responseCache *ResponseCache) Purge(ctx context.Context, namespaces ...string) {
	logger := ctxutil.GetLogger(ctx)

	for _, namespace := range namespaces {
		deleted, err := responseCache.backend.DeletePrefix(ctx, responseCache.namespacePrefix(namespace))
		if err != nil {
			logger.WarnContext(ctx, "cache_purge_failed", slog.String("namespace", namespace), slog.Any("error", err))
			continue
		}
		if deleted > 0 {
			logger.DebugContext(ctx, "cache_purged", slog.String("namespace", namespace), slog.Int("deleted", deleted))
		}
	}
}

// InvalidateOnWrite purges namespaces after an unsafe request that did not fail.
func (responseCache *ResponseCache) InvalidateOnWrite(namespaces ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(writer, request)
				return
			}

			recorder := middleware.NewStatusRecorder(writer)
			next.ServeHTTP(recorder, request)

			if recorder.Status < http.StatusBadRequest {
				responseCache.Purge(request.Context(), namespaces...)
			}
		})
	}
}

// recordingWriter tees the response body into a buffer.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (recorder *recordingWriter) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *recordingWriter) Write(data []byte) (int, error) {
	recorder.body.Write(data)
	return recorder.ResponseWriter.Write(data)
}

func (recorder *recordingWriter) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}
