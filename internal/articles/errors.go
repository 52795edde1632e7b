// ABOUTME: Error taxonomy for the article collection service
// ABOUTME: Every service failure wraps exactly one of these sentinels

package articles

import "errors"

var (
	// ErrConfigurationMissing means a credential or connection string is not set.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrUpstreamUnavailable means the remote news source failed or sent garbage.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidPayload means a save was attempted with something other than an article array.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrNoSnapshotAvailable means restore was requested before any successful fetch.
	ErrNoSnapshotAvailable = errors.New("no snapshot available")

	// ErrStoreFailure means the article store could not be read or written.
	ErrStoreFailure = errors.New("store failure")
)

// Kind returns the taxonomy sentinel err wraps, or nil when it wraps none.
func Kind(err error) error {
	for _, kind := range []error{
		ErrConfigurationMissing,
		ErrUpstreamUnavailable,
		ErrInvalidPayload,
		ErrNoSnapshotAvailable,
		ErrStoreFailure,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
