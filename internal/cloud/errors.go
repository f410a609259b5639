package cloud

import (
	"net/http"
	"strings"

	"github.com/gophercloud/gophercloud/v2"
)

// isNotFound checks if an error is the API's 404 response.
func isNotFound(err error) bool {
	return gophercloud.ResponseCodeIs(err, http.StatusNotFound)
}

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur while a server-side operation is still
// in flight. These errors are retryable.
func isResourceLocked(err error) bool {
	if err == nil {
		return false
	}

	if gophercloud.ResponseCodeIs(err, http.StatusConflict) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "locked") ||
		strings.Contains(errStr, "conflict") ||
		strings.Contains(errStr, "is busy")
}
