// Package collector drives the browser through every slide and gathers the raw overflow summary.
package collector

import "fmt"

// StartupError means the dev server never became ready.
type StartupError struct {
	Message string
	Cause   error
}

func (e *StartupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("startup error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("startup error: %s", e.Message)
}

func (e *StartupError) Unwrap() error {
	return e.Cause
}

// NavigationError means the presentation page failed to load in time.
type NavigationError struct {
	URL   string
	Cause error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation error: loading %s: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// DiscoveryError means no slides could be detected after the retry.
type DiscoveryError struct {
	Message string
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("discovery error: %s", e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}
