package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrMissingQuery   = errors.New("no query provided")
	ErrNoResults      = errors.New("no track found")
	ErrTrackNotFound  = errors.New("track not found")
	ErrInvalidTrackID = errors.New("invalid track id")
	ErrUpstream       = errors.New("catalog upstream error")
	ErrNoAudio        = errors.New("track has no preview audio")
	ErrNetworkError   = errors.New("network error")
	ErrTimeout        = errors.New("request timeout")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ChorusError wraps an error with a user-friendly suggestion.
type ChorusError struct {
	Err        error
	Suggestion string
}

func (e *ChorusError) Error() string {
	return e.Err.Error()
}

func (e *ChorusError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &ChorusError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// suggestionRule matches errors by sentinel or by message substring.
type suggestionRule struct {
	sentinels  []error
	substrings []string
	suggestion string
}

// rules are checked in order; the first match wins.
var rules = []suggestionRule{
	{
		sentinels:  []error{ErrMissingQuery},
		suggestion: "Pass a search term, e.g. 'chorus search \"hype boy\"'",
	},
	{
		sentinels:  []error{ErrNoResults, ErrTrackNotFound},
		suggestion: "Try a different search term or check the track id",
	},
	{
		sentinels:  []error{ErrInvalidTrackID},
		suggestion: "Track ids are numeric catalog ids, as printed by 'chorus search'",
	},
	{
		sentinels:  []error{ErrNoAudio},
		suggestion: "This track has no preview; pick another one from 'chorus search'",
	},
	{
		substrings: []string{"not running in a terminal"},
		suggestion: "Run this from an interactive terminal, or use 'chorus play <id>' for headless playback",
	},
	{
		substrings: []string{"rate limit", "status 429"},
		suggestion: "Too many requests. Wait a moment and try again",
	},
	{
		sentinels:  []error{ErrNetworkError, ErrTimeout},
		substrings: []string{"network", "timeout", "connection refused", "no such host"},
		suggestion: "Check your internet connection and try again",
	},
	{
		substrings: []string{"open speaker"},
		suggestion: "No audio output device is available",
	},
	{
		sentinels:  []error{ErrConfigNotFound, ErrInvalidConfig},
		substrings: []string{"config"},
		suggestion: "Run 'chorus config show' to inspect the active configuration",
	},
	{
		sentinels:  []error{ErrUpstream},
		substrings: []string{"status 5", "server error"},
		suggestion: "The catalog is having issues. Try again in a moment",
	},
}

func (r suggestionRule) matches(err error, msg string) bool {
	for _, s := range r.sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	for _, sub := range r.substrings {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

// GetSuggestion returns a suggestion for the given error, preferring one
// attached with WithSuggestion.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var chorusErr *ChorusError
	if errors.As(err, &chorusErr) && chorusErr.Suggestion != "" {
		return chorusErr.Suggestion
	}

	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		if r.matches(err, msg) {
			return r.suggestion
		}
	}
	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
