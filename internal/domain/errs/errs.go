// Package errs holds the error taxonomy shared by the pipeline and its adapters.
// Use errors.Is to classify: errors.Is(err, errs.ErrAuthentication).
package errs

import "errors"

var (
	// ErrConfiguration marks missing or invalid settings. Fatal, raised before any network call.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrAuthentication marks credentials that are missing or rejected by LeetCode. Fatal.
	ErrAuthentication = errors.New("leetcode authentication failed")
	// ErrFetch marks a failed per-problem request. The problem is skipped.
	ErrFetch = errors.New("fetch failed")
	// ErrCacheCorrupt marks an unreadable cache entry. Treated as a miss.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
	// ErrSerialization marks a deck package that could not be written. Fatal.
	ErrSerialization = errors.New("deck serialization failed")
	// ErrNoAcceptedSubmission is returned when a problem has no accepted submission.
	ErrNoAcceptedSubmission = errors.New("no accepted submission")
)

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrSerialization)
}
