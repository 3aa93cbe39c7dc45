package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/lottie"
)

// PreviewFactory builds schematic preview engines. It is the bundled
// EngineFactory: instead of evaluating the full animation model, the
// engines it produces render a frame-accurate placeholder (composition
// bounds, timeline progress, frame counter) so scrubbing, playback
// timing, zooming and export plumbing all behave exactly as they would
// against a real renderer.
type PreviewFactory struct{}

// NewPreviewFactory creates a factory
func NewPreviewFactory() *PreviewFactory {
	return &PreviewFactory{}
}

// Load validates the animation data and returns an engine parked before
// its first frame.
func (f *PreviewFactory) Load(ctx context.Context, opts ports.EngineOptions) (ports.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	desc, err := lottie.Parse(opts.Data)
	if err != nil {
		return nil, err
	}
	e := &PreviewEngine{
		desc: desc,
		loop: opts.Loop,
	}
	if opts.Autoplay {
		e.playing = true
	}
	return e, nil
}

// PreviewEngine is a clock-driven playback engine over a parsed
// animation descriptor. The hosting loop calls Advance with wall-clock
// deltas; the engine converts elapsed time to frame steps at the
// composition's native frame rate and fires its notifications
// synchronously, the same contract a real renderer binding would have.
type PreviewEngine struct {
	desc *lottie.Descriptor

	frame     int
	carry     time.Duration
	loop      bool
	playing   bool
	destroyed bool

	readyFired bool
	onReady    func()
	onFrame    func(int)
	onComplete func()
}

func (e *PreviewEngine) Play() {
	if e.destroyed {
		return
	}
	e.playing = true
	e.carry = 0
}

func (e *PreviewEngine) Pause() {
	e.playing = false
	e.carry = 0
}

func (e *PreviewEngine) GoToAndStop(frame int) {
	if e.destroyed {
		return
	}
	e.frame = e.clamp(frame)
	e.playing = false
	e.carry = 0
	e.fireReady()
}

func (e *PreviewEngine) SetLoop(loop bool) {
	e.loop = loop
}

// Advance moves the playhead by dt of wall time. Sub-frame remainders
// carry over to the next call, so irregular tick intervals do not drift
// the effective frame rate.
func (e *PreviewEngine) Advance(dt time.Duration) {
	if e.destroyed || !e.playing || dt <= 0 {
		return
	}

	e.carry += dt
	frameDur := time.Duration(float64(time.Second) / e.desc.FrameRate)
	if frameDur <= 0 {
		return
	}

	steps := int(e.carry / frameDur)
	if steps == 0 {
		return
	}
	e.carry -= time.Duration(steps) * frameDur

	next := e.frame + steps
	last := e.desc.TotalFrames() - 1

	if next > last {
		if e.loop {
			next = next % e.desc.TotalFrames()
		} else {
			e.frame = last
			e.playing = false
			e.carry = 0
			if e.onComplete != nil {
				e.onComplete()
			}
			return
		}
	}

	e.frame = next
	if e.onFrame != nil {
		e.onFrame(next)
	}
}

func (e *PreviewEngine) TotalFrames() int   { return e.desc.TotalFrames() }
func (e *PreviewEngine) CurrentFrame() int  { return e.frame }
func (e *PreviewEngine) FrameRate() float64 { return e.desc.FrameRate }

// Markup renders the schematic frame: composition bounds, a timeline
// progress bar and the current frame number, at intrinsic size.
func (e *PreviewEngine) Markup() string {
	if e.destroyed {
		return ""
	}

	w, h := e.desc.Width, e.desc.Height
	last := e.desc.TotalFrames() - 1
	progress := 0.0
	if last > 0 {
		progress = float64(e.frame) / float64(last)
	}

	barH := h * 0.04
	if barH < 2 {
		barH = 2
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+
			`<rect width="%g" height="%g" fill="#1a1d23"/>`+
			`<rect x="0.5" y="0.5" width="%g" height="%g" fill="none" stroke="#3a3f4b"/>`+
			`<line x1="0" y1="0" x2="%g" y2="%g" stroke="#2a2e37"/>`+
			`<line x1="%g" y1="0" x2="0" y2="%g" stroke="#2a2e37"/>`+
			`<rect x="0" y="%g" width="%g" height="%g" fill="#3ddcff"/>`+
			`<text x="%g" y="%g" font-family="monospace" font-size="%g" fill="#8b93a3" text-anchor="middle">%s / frame %d</text>`+
			`</svg>`,
		w, h, w, h,
		w, h,
		w-1, h-1,
		w, h,
		w, h,
		h-barH, w*progress, barH,
		w/2, h/2, clampFont(h*0.06), e.desc.DisplayName("animation"), e.frame,
	)
}

func (e *PreviewEngine) OnReady(fn func())          { e.onReady = fn }
func (e *PreviewEngine) OnFrame(fn func(frame int)) { e.onFrame = fn }
func (e *PreviewEngine) OnComplete(fn func())       { e.onComplete = fn }

// Destroy stops playback and disconnects every callback; no
// notification can fire after this returns.
func (e *PreviewEngine) Destroy() {
	e.destroyed = true
	e.playing = false
	e.onReady = nil
	e.onFrame = nil
	e.onComplete = nil
}

func (e *PreviewEngine) fireReady() {
	if e.readyFired || e.onReady == nil {
		return
	}
	e.readyFired = true
	e.onReady()
}

func (e *PreviewEngine) clamp(frame int) int {
	last := e.desc.TotalFrames() - 1
	if frame < 0 {
		return 0
	}
	if frame > last {
		return last
	}
	return frame
}

func clampFont(size float64) float64 {
	if size < 10 {
		return 10
	}
	return size
}
