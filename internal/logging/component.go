// ABOUTME: Component detection for request logging.
// ABOUTME: Determines which surface a request belongs to based on URL path.

package logging

import "strings"

// GetComponentFromPath determines which surface handles a given path
func GetComponentFromPath(path string) string {
	if strings.HasPrefix(path, "/apis/v1/") {
		return "platform"
	}
	if strings.HasPrefix(path, "/runner/") {
		return "runner"
	}
	return "unknown"
}
