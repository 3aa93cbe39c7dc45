package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/lottie"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/svgdoc"
)

// SessionService is the single authority over what asset is loaded and
// what its playback position is. It drives the playback engine, keeps
// the viewport and render surface consistent across the asset lifecycle,
// and registers loads with the recent-files list.
//
// Everything here runs on a single event goroutine (the TUI update
// loop); no internal locking is needed or used.
type SessionService struct {
	engines ports.EngineFactory
	prefs   ports.PreferenceStore

	viewport *ViewportService
	surface  *Surface

	asset        *domain.Asset
	engine       ports.Engine
	staticMarkup string
	position     int
	playing      bool
	loop         bool

	ignoreOpacity bool
	showOutline   bool

	// generation stamps every load; callbacks and surface writes from a
	// superseded load compare against it and drop themselves
	generation int

	// recentTouched limits the play-triggered recent timestamp update
	// to once per load session
	recentTouched bool

	// recentLimit caps the recent-files list; non-positive means the
	// domain default
	recentLimit int

	onChange func()
}

// NewSessionService creates a session wired to the given collaborators,
// restoring persisted toggle preferences.
func NewSessionService(engines ports.EngineFactory, prefs ports.PreferenceStore) *SessionService {
	return &SessionService{
		engines:       engines,
		prefs:         prefs,
		viewport:      NewViewportService(),
		surface:       NewSurface(),
		position:      domain.NoFrames,
		loop:          prefs.GetBool(ports.PrefLoop, false),
		ignoreOpacity: prefs.GetBool(ports.PrefIgnoreOpacity, false),
		showOutline:   prefs.GetBool(ports.PrefFrameOutline, false),
	}
}

// OnChange registers the UI projection callback. The UI is never a
// source of truth; it re-reads session state whenever this fires.
func (s *SessionService) OnChange(fn func()) { s.onChange = fn }

// SetRecentLimit installs the configured recent-files cap. Non-positive
// values keep the default.
func (s *SessionService) SetRecentLimit(n int) { s.recentLimit = n }

// Viewport returns the viewport controller for this session
func (s *SessionService) Viewport() *ViewportService { return s.viewport }

// Surface returns the render surface
func (s *SessionService) Surface() *Surface { return s.surface }

// Asset returns the active asset, or nil when nothing is loaded
func (s *SessionService) Asset() *domain.Asset { return s.asset }

// Position returns the current frame index, or domain.NoFrames
func (s *SessionService) Position() int { return s.position }

// IsPlaying reports whether playback is running
func (s *SessionService) IsPlaying() bool { return s.playing }

// Loop reports the loop flag
func (s *SessionService) Loop() bool { return s.loop }

// IgnoreOpacity reports the ignore-opacity overlay toggle
func (s *SessionService) IgnoreOpacity() bool { return s.ignoreOpacity }

// ShowOutline reports the frame-outline overlay toggle
func (s *SessionService) ShowOutline() bool { return s.showOutline }

// Load ingests raw file bytes. The extension routes to the animated or
// static path. Any failure, including the engine rejecting the data,
// leaves the previously loaded asset untouched and playable; the prior
// engine instance is torn down only once its replacement is ready.
func (s *SessionService) Load(ctx context.Context, data []byte, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".lottie":
		return s.loadAnimated(ctx, data, filename)
	case ".svg":
		return s.loadStatic(data, filename)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func (s *SessionService) loadAnimated(ctx context.Context, data []byte, filename string) error {
	// Validate before touching any prior state: a parse failure must be
	// all-or-nothing.
	desc, err := lottie.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAnimationData, err)
	}

	eng, err := s.engines.Load(ctx, ports.EngineOptions{Data: data, Loop: s.loop})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAnimationData, err)
	}

	// Only now that the replacement exists is the prior state released.
	// The new engine has no callbacks attached yet, so two engines are
	// never simultaneously subscribed.
	s.teardown()
	gen := s.beginGeneration()

	name := filepath.Base(filename)
	asset := &domain.Asset{
		Kind:       domain.KindAnimation,
		Name:       name,
		Width:      desc.Width,
		Height:     desc.Height,
		FrameCount: desc.TotalFrames(),
		FrameRate:  desc.FrameRate,
		ByteSize:   int64(len(data)),
	}

	eng.OnReady(func() {
		if gen != s.generation {
			return
		}
		s.surface.Write(gen, eng.Markup())
	})
	eng.OnFrame(func(frame int) {
		if gen != s.generation {
			return
		}
		// While playing, the engine's own notifications are the source
		// of truth for position.
		s.position = frame
		s.surface.Write(gen, eng.Markup())
		s.notify()
	})
	eng.OnComplete(func() {
		if gen != s.generation {
			return
		}
		s.playing = false
		s.notify()
	})

	s.engine = eng
	s.staticMarkup = ""
	s.asset = asset
	// Position resets before the UI learns the new frame bounds, so a
	// stale value can never display outside the new valid range.
	s.position = 0
	s.playing = false

	s.viewport.SetIntrinsic(asset.Width, asset.Height)
	eng.GoToAndStop(0)

	s.registerRecent(data, name)
	s.notify()
	return nil
}

func (s *SessionService) loadStatic(data []byte, filename string) error {
	markup := string(data)
	vb, err := svgdoc.ReadViewBox(markup)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAnimationData, err)
	}

	s.teardown()
	gen := s.beginGeneration()

	name := filepath.Base(filename)
	s.asset = &domain.Asset{
		Kind:     domain.KindStaticSVG,
		Name:     name,
		Width:    vb.Width,
		Height:   vb.Height,
		OriginX:  vb.MinX,
		OriginY:  vb.MinY,
		ByteSize: int64(len(data)),
	}
	s.staticMarkup = markup
	s.position = domain.NoFrames
	s.playing = false

	s.viewport.SetIntrinsic(vb.Width, vb.Height)
	s.surface.Write(gen, markup)

	s.registerRecent(data, name)
	s.notify()
	return nil
}

// LoadFromRecent re-opens a recent entry from its inlined content
func (s *SessionService) LoadFromRecent(ctx context.Context, name string, size int64) error {
	entry, ok := s.prefs.Recent().Find(name, size)
	if !ok || entry.Content == "" {
		return fmt.Errorf("no cached content for %q", name)
	}
	return s.Load(ctx, []byte(entry.Content), entry.Name)
}

// Play starts playback. No-op without an animated asset. When not
// looping and already parked on the last frame, playback rewinds to
// frame 0 first.
func (s *SessionService) Play() {
	if s.asset == nil || !s.asset.IsAnimated() || s.engine == nil {
		return
	}
	if !s.loop && s.position == s.asset.LastFrame() {
		s.engine.GoToAndStop(0)
		s.position = 0
	}
	s.engine.Play()
	s.playing = true
	s.touchRecentOnce()
	s.notify()
}

// Pause stops playback, keeping the current frame. No-op when nothing
// is loaded.
func (s *SessionService) Pause() {
	if s.engine == nil {
		return
	}
	s.engine.Pause()
	s.playing = false
	s.notify()
}

// TogglePlay flips between Play and Pause
func (s *SessionService) TogglePlay() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// SetFrame renders exactly frame n (clamped to the valid range) without
// advancing playback. The viewport transform is reapplied through the
// normal projection path, so a frame change can never desynchronize it.
func (s *SessionService) SetFrame(n int) {
	if s.asset == nil || !s.asset.IsAnimated() || s.engine == nil {
		return
	}
	n = s.asset.ClampFrame(n)
	s.engine.GoToAndStop(n)
	s.position = n
	s.surface.Write(s.generation, s.engine.Markup())
	s.notify()
}

// StepFrame moves the position by delta frames while paused
func (s *SessionService) StepFrame(delta int) {
	if s.asset == nil || !s.asset.IsAnimated() {
		return
	}
	s.SetFrame(s.position + delta)
}

// SetLoop updates the loop flag locally, on the engine instance when one
// exists (effective immediately, including mid-playback), and in the
// preference store.
func (s *SessionService) SetLoop(loop bool) {
	s.loop = loop
	s.prefs.SetBool(ports.PrefLoop, loop)
	if s.engine != nil {
		s.engine.SetLoop(loop)
	}
	s.notify()
}

// SetIgnoreOpacity toggles the opacity-override overlay
func (s *SessionService) SetIgnoreOpacity(on bool) {
	s.ignoreOpacity = on
	s.prefs.SetBool(ports.PrefIgnoreOpacity, on)
	s.notify()
}

// SetShowOutline toggles the frame-outline overlay
func (s *SessionService) SetShowOutline(on bool) {
	s.showOutline = on
	s.prefs.SetBool(ports.PrefFrameOutline, on)
	s.notify()
}

// Tick advances the playback clock; engine frame notifications fire
// synchronously from inside this call.
func (s *SessionService) Tick(dt time.Duration) {
	if s.playing && s.engine != nil {
		s.engine.Advance(dt)
	}
}

// Clear tears down the active asset and releases its rendering resources
func (s *SessionService) Clear() {
	s.teardown()
	s.beginGeneration()
	s.asset = nil
	s.staticMarkup = ""
	s.position = domain.NoFrames
	s.playing = false
	s.notify()
}

// IsSameFile reports whether the active asset matches (name, size)
func (s *SessionService) IsSameFile(name string, size int64) bool {
	return s.asset != nil && s.asset.Name == name && s.asset.ByteSize == size
}

// IsStaticLoaded reports whether a static vector document is active
func (s *SessionService) IsStaticLoaded() bool {
	return s.asset != nil && s.asset.Kind == domain.KindStaticSVG
}

// Reattach re-renders the current content into a fresh surface, for use
// after the hosting UI has been rebuilt in place.
func (s *SessionService) Reattach() {
	if s.asset == nil {
		return
	}
	s.surface.Reset(s.generation)
	switch {
	case s.engine != nil:
		s.surface.Write(s.generation, s.engine.Markup())
	case s.staticMarkup != "":
		s.surface.Write(s.generation, s.staticMarkup)
	}
	s.notify()
}

// ComposedMarkup returns the live preview document for the current
// viewport state: frame markup sized to the container, transform wrapper
// and overlays applied. This is both what the preview rasterizes and
// what the export pipeline consumes.
func (s *SessionService) ComposedMarkup(containerW, containerH float64) (string, error) {
	var originX, originY float64
	if s.asset != nil {
		originX, originY = s.asset.OriginX, s.asset.OriginY
	}
	return s.surface.Compose(ComposeSpec{
		ContainerWidth:  containerW,
		ContainerHeight: containerH,
		Transform:       s.viewport.Transform(),
		IntrinsicWidth:  s.assetWidth(),
		IntrinsicHeight: s.assetHeight(),
		OriginX:         originX,
		OriginY:         originY,
		ShowOutline:     s.showOutline,
		IgnoreOpacity:   s.ignoreOpacity,
	})
}

// ExportSource snapshots everything the export pipeline needs about the
// currently displayed frame.
func (s *SessionService) ExportSource() (FrameSource, error) {
	if s.asset == nil || !s.surface.HasContent() {
		return FrameSource{}, domain.ErrNothingToExport
	}
	markup, err := s.ComposedMarkup(s.viewport.containerW, s.viewport.containerH)
	if err != nil {
		return FrameSource{}, err
	}
	frame := s.position
	if frame == domain.NoFrames {
		frame = 0
	}
	return FrameSource{Markup: markup, Asset: *s.asset, Frame: frame}, nil
}

// beginGeneration invalidates all pending continuations of the previous
// load and re-arms the surface's first-content watch.
func (s *SessionService) beginGeneration() int {
	s.generation++
	gen := s.generation
	s.recentTouched = false
	s.surface.Reset(gen)
	s.surface.WatchFirstContent(func() {
		// Reveal only once real content exists; avoids a flash of
		// mis-scaled output on the first paint.
		s.notify()
	})
	return gen
}

// teardown destroys the prior engine instance. Callbacks attach to a
// replacement only after this runs, so two engines are never
// simultaneously subscribed.
func (s *SessionService) teardown() {
	if s.engine != nil {
		s.engine.Destroy()
		s.engine = nil
	}
}

// registerRecent adds the load to the recent-files list. Content is
// inlined only under the size cap; this is a quick-reopen optimization
// and its failure is never surfaced.
func (s *SessionService) registerRecent(data []byte, name string) {
	entry := domain.RecentEntry{
		Name:     name,
		Size:     int64(len(data)),
		OpenedAt: time.Now(),
	}
	if entry.Size <= domain.InlineContentCap {
		entry.Content = string(data)
	}
	s.prefs.SaveRecent(s.prefs.Recent().Touch(entry, s.recentLimit))
}

// touchRecentOnce refreshes the active file's last-touched timestamp at
// most once per load session.
func (s *SessionService) touchRecentOnce() {
	if s.recentTouched || s.asset == nil {
		return
	}
	s.recentTouched = true
	list := s.prefs.Recent()
	if entry, ok := list.Find(s.asset.Name, s.asset.ByteSize); ok {
		entry.OpenedAt = time.Now()
		s.prefs.SaveRecent(list.Touch(entry, s.recentLimit))
	}
}

func (s *SessionService) assetWidth() float64 {
	if s.asset == nil {
		return 0
	}
	return s.asset.Width
}

func (s *SessionService) assetHeight() float64 {
	if s.asset == nil {
		return 0
	}
	return s.asset.Height
}

func (s *SessionService) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
