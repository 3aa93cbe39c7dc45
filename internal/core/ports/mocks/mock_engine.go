package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
)

// MockEngineFactory is a mock implementation of the EngineFactory port.
// It hands out MockEngine instances and records every engine it created
// so tests can assert teardown ordering.
type MockEngineFactory struct {
	Created []*MockEngine

	// FailLoad makes Load return an error
	FailLoad bool

	// Frames/FPS configure the engines produced by Load
	Frames int
	FPS    float64
}

// NewMockEngineFactory creates a factory producing engines with the given timeline
func NewMockEngineFactory(frames int, fps float64) *MockEngineFactory {
	return &MockEngineFactory{Frames: frames, FPS: fps}
}

// Load returns a fresh MockEngine
func (f *MockEngineFactory) Load(ctx context.Context, opts ports.EngineOptions) (ports.Engine, error) {
	if f.FailLoad {
		return nil, fmt.Errorf("mock engine: load failed")
	}
	e := &MockEngine{
		frames: f.Frames,
		fps:    f.FPS,
		loop:   opts.Loop,
	}
	f.Created = append(f.Created, e)
	return e, nil
}

// MockEngine is a mock implementation of the Engine port. Playback is
// driven manually: tests call Advance or FireFrame to simulate the
// engine's own notifications.
type MockEngine struct {
	frames    int
	fps       float64
	frame     int
	loop      bool
	playing   bool
	destroyed bool

	readyFired bool
	onReady    func()
	onFrame    func(int)
	onComplete func()

	// Call log for ordering assertions
	Calls []string
}

func (e *MockEngine) record(call string) {
	e.Calls = append(e.Calls, call)
}

func (e *MockEngine) Play() {
	e.record("Play")
	if e.destroyed {
		return
	}
	e.playing = true
}

func (e *MockEngine) Pause() {
	e.record("Pause")
	e.playing = false
}

func (e *MockEngine) GoToAndStop(frame int) {
	e.record(fmt.Sprintf("GoToAndStop(%d)", frame))
	if e.destroyed {
		return
	}
	e.frame = frame
	e.playing = false
	e.fireReady()
}

func (e *MockEngine) SetLoop(loop bool) {
	e.record(fmt.Sprintf("SetLoop(%v)", loop))
	e.loop = loop
}

func (e *MockEngine) Advance(dt time.Duration) {
	if e.destroyed || !e.playing {
		return
	}
	next := e.frame + 1
	if next >= e.frames {
		if e.loop {
			next = 0
		} else {
			e.playing = false
			e.frame = e.frames - 1
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

func (e *MockEngine) TotalFrames() int    { return e.frames }
func (e *MockEngine) CurrentFrame() int   { return e.frame }
func (e *MockEngine) FrameRate() float64  { return e.fps }
func (e *MockEngine) IsPlaying() bool     { return e.playing }
func (e *MockEngine) IsDestroyed() bool   { return e.destroyed }
func (e *MockEngine) LoopEnabled() bool   { return e.loop }

func (e *MockEngine) Markup() string {
	if e.destroyed {
		return ""
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600"><rect id="mock-frame-%d" width="800" height="600"/></svg>`, e.frame)
}

func (e *MockEngine) OnReady(fn func())        { e.onReady = fn }
func (e *MockEngine) OnFrame(fn func(frame int)) { e.onFrame = fn }
func (e *MockEngine) OnComplete(fn func())     { e.onComplete = fn }

func (e *MockEngine) Destroy() {
	e.record("Destroy")
	e.destroyed = true
	e.playing = false
	e.onReady = nil
	e.onFrame = nil
	e.onComplete = nil
}

// FireFrame simulates the engine's own per-frame notification. Used by
// tests to prove that notifications from destroyed engines never land.
func (e *MockEngine) FireFrame(frame int) {
	e.frame = frame
	if e.onFrame != nil {
		e.onFrame(frame)
	}
}

func (e *MockEngine) fireReady() {
	if e.readyFired || e.onReady == nil {
		return
	}
	e.readyFired = true
	e.onReady()
}
