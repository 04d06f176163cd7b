// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, cookie names and header names.
  - Cache: Redis key prefixes and namespaces.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "blango-api"
	AppVersion = "0.1.0-dev"

	// APIPrefix is the versioned mount point of the JSON API.
	APIPrefix = "/api/v1"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "blango.app"

	// SessionCookieName is the cookie carrying the server-side session id.
	SessionCookieName = "sessionid"

	// CSRFCookieName is the double-submit cookie used by server-rendered forms.
	CSRFCookieName = "csrftoken"

	// CSRFFormField is the hidden form field that must echo the CSRF cookie.
	CSRFFormField = "csrfmiddlewaretoken"

	// SchemeBearer prefixes JWT access tokens in the Authorization header.
	SchemeBearer = "Bearer"

	// SchemeToken prefixes opaque API tokens in the Authorization header.
	SchemeToken = "Token"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderCookie        = "Cookie"
	HeaderContentType   = "Content-Type"
	HeaderOrigin        = "Origin"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXForwardProto = "X-Forwarded-Proto"
	HeaderXCSRFToken    = "X-CSRFToken"
	HeaderXCache        = "X-Cache"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaBlango = "blango"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession  = "session:"
	RedisPrefixResponse = "resp:"
)

// # Response Cache Namespaces

const (
	CachePosts = "posts"
	CacheTags  = "tags"
	CacheUsers = "users"
	CachePages = "pages"
)
