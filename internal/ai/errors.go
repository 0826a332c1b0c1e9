package ai

import "errors"

// ErrUnavailable marks a provider that is configured without
// credentials; group chains skip to the next entry.
var ErrUnavailable = errors.New("ai provider unavailable")
