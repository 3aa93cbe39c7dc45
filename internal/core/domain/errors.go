package domain

import "errors"

// Error taxonomy surfaced to the user. None of these are fatal: load
// failures preserve the previously active asset, and persistence failures
// degrade to session-only memory.
var (
	// ErrUnsupportedFormat means the file extension is neither an
	// animation descriptor nor a static SVG document
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidAnimationData means the descriptor bytes failed to parse
	ErrInvalidAnimationData = errors.New("invalid animation data")

	// ErrNothingToExport means export was requested with no rendered content
	ErrNothingToExport = errors.New("nothing to export")

	// ErrExportFailure wraps optimization or rasterization failures
	ErrExportFailure = errors.New("export failed")

	// ErrStorageUnavailable means preference persistence failed; the
	// in-memory value is still used for the rest of the session
	ErrStorageUnavailable = errors.New("preference storage unavailable")
)
