package instance

import "os"

// GetID returns the identifier of this API process for log correlation.
// DYNO wins over the hostname; "local" is used when neither is set.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
