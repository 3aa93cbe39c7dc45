package ports

import (
	"context"
	"image"
	"time"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
)

// EngineOptions configures a playback engine instance at load time
type EngineOptions struct {
	// Data is the raw animation descriptor (Lottie JSON)
	Data []byte

	// Loop makes a completed run restart from frame 0
	Loop bool

	// Autoplay starts playback immediately after the first render
	Autoplay bool
}

// EngineFactory defines the port for constructing playback engine
// instances. The engine interprets the animation descriptor; this
// application never does.
type EngineFactory interface {
	// Load parses data and returns a renderable engine instance
	Load(ctx context.Context, opts EngineOptions) (Engine, error)
}

// Engine is one loaded animation. It is single-owner: the session
// controller creates it, drives it, and destroys it before ever
// creating a replacement.
type Engine interface {
	// Play starts or resumes playback from the current frame
	Play()

	// Pause stops playback, keeping the current frame rendered
	Pause()

	// GoToAndStop renders exactly the given frame without playing
	GoToAndStop(frame int)

	// SetLoop updates the loop flag, effective immediately
	SetLoop(loop bool)

	// Advance moves the playback clock forward. Frame and completion
	// callbacks fire synchronously from inside this call.
	Advance(dt time.Duration)

	// TotalFrames returns the frame count in index space
	TotalFrames() int

	// CurrentFrame returns the most recently rendered frame index
	CurrentFrame() int

	// FrameRate returns frames per second
	FrameRate() float64

	// Markup returns the current frame as standalone SVG markup
	Markup() string

	// OnReady registers a callback fired once after the first render
	OnReady(fn func())

	// OnFrame registers a callback fired per rendered frame during playback
	OnFrame(fn func(frame int))

	// OnComplete registers a callback fired when a non-looping run finishes
	OnComplete(fn func())

	// Destroy releases the instance. No callback fires afterwards.
	Destroy()
}

// Optimizer defines the port for the vector-cleanup collaborator.
// Optimize is pure and side-effect free; callers fall back to their own
// minimal cleanup when it errors.
type Optimizer interface {
	Optimize(markup string, aggressive bool) (string, error)
}

// Rasterizer defines the port for turning SVG markup into pixels
type Rasterizer interface {
	// Rasterize renders markup at exactly width x height pixels,
	// preserving transparency
	Rasterize(markup string, width, height int) (image.Image, error)
}

// PreferenceStore defines the port for durable key/value settings with
// typed defaults. Every getter falls back to its default when the key is
// absent or malformed; setters persist best-effort and never fail the
// caller (a failed write only means the value will not survive a restart).
type PreferenceStore interface {
	GetString(key, def string) string
	SetString(key, value string)

	GetBool(key string, def bool) bool
	SetBool(key string, value bool)

	GetInt(key string, def int) int
	SetInt(key string, value int)

	GetFloat(key string, def float64) float64
	SetFloat(key string, value float64)

	// Recent returns the persisted recent-files list
	Recent() domain.RecentList

	// SaveRecent persists the recent-files list best-effort
	SaveRecent(list domain.RecentList)

	// Available reports whether the last persistence attempt succeeded
	Available() bool
}

// Preference keys shared between the services and the UI shell
const (
	PrefExportFormat      = "export.format"      // "svg" | "png" | "jpg"
	PrefExportCompression = "export.compression" // 0..100
	PrefExportScaleIndex  = "export.scale_index" // index into raster step table
	PrefAggressive        = "export.aggressive"  // optimizer mode
	PrefLoop              = "player.loop"
	PrefIgnoreOpacity     = "overlay.ignore_opacity"
	PrefFrameOutline      = "overlay.frame_outline"
	PrefBackground        = "background.choice" // "dark" | "light" | "checker" | "custom"
	PrefBackgroundColor   = "background.custom_color"
	PrefDetailsCollapsed  = "panel.details.collapsed"
)
