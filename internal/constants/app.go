// Package constants centralizes tunables shared across the module.
package constants

import (
	"time"
)

// Application identity
const (
	// AppName - used for config directory resolution and the HTTP User-Agent
	AppName = "filepicker"

	// UserAgent - sent on every WebDAV request
	UserAgent = "filepicker-go"
)

// Event bus configuration
const (
	// EventBusDefaultBuffer - default buffer size for event channels
	// The picker publishes small bursts (listing + selection + path events
	// per navigation), so a modest buffer is plenty.
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - maximum buffer size a caller may request
	EventBusMaxBuffer = 4096
)

// HTTP client configuration
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPRequestTimeout - overall timeout for a single WebDAV request.
	// Directory listings are small; anything beyond this is a stuck server.
	HTTPRequestTimeout = 60 * time.Second
)

// Retry configuration for the WebDAV client
const (
	// RetryMax - maximum number of retries for transient errors
	RetryMax = 4

	// RetryWaitMin - initial delay before first retry
	RetryWaitMin = 500 * time.Millisecond

	// RetryWaitMax - maximum delay between retries
	RetryWaitMax = 10 * time.Second
)

// Recent view configuration
const (
	// RecentLookback - how far back the "recent" view searches
	RecentLookback = 14 * 24 * time.Hour

	// RecentLimit - maximum number of entries the "recent" view returns
	RecentLimit = 100
)
