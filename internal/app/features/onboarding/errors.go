// internal/app/features/onboarding/errors.go
package onboarding

import "errors"

var (
	// ErrConfigNotFound means the requested region has no entry in the
	// lookup table, either because it never existed or because provisioning
	// has not run.
	ErrConfigNotFound = errors.New("onboarding: no configuration for region")

	// ErrInvalidLocality means the locality name sanitized down to nothing,
	// so no channel name can be derived from it.
	ErrInvalidLocality = errors.New("onboarding: locality yields an empty channel name")
)
