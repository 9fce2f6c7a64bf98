// Package webdav implements a listing service backed by a
// Nextcloud-flavoured WebDAV endpoint.
package webdav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyExists indicates a node with the same name already exists
// at the target path. Returned by CreateDirectory on MKCOL conflicts.
var ErrAlreadyExists = errors.New("node already exists")

// ErrNotFound indicates the requested path does not exist on the
// server.
var ErrNotFound = errors.New("node not found")

// IsAlreadyExistsError checks if an error indicates a name collision.
//
// Detects collisions from multiple sources:
//  1. Wrapped ErrAlreadyExists
//  2. Error messages containing "already exists", "conflict" or
//     "method not allowed" (MKCOL on an existing collection)
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrAlreadyExists) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	conflictIndicators := []string{
		"already exists",
		"conflict",
		"method not allowed",
	}

	for _, indicator := range conflictIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// statusError converts an unexpected HTTP status into an error carrying
// method and path context.
func statusError(method, path string, status int) error {
	return fmt.Errorf("%s %s: unexpected status %d", method, path, status)
}
