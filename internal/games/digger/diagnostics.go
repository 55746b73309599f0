package digger

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/engine"
)

const (
	frameWindow     = 120
	logEverySeconds = 1.0
)

// FrameTimeDiagnostics tracks the average wall-clock frame rate over recent frames.
type FrameTimeDiagnostics struct {
	now       func() time.Time
	lastFrame time.Time
	samples   []float64
	next      int
	sum       float64
	lastLog   float64
}

// Default uses the system clock.
func (FrameTimeDiagnostics) Default() FrameTimeDiagnostics {
	return FrameTimeDiagnostics{now: time.Now}
}

// FPS returns the average frames per second, or 0 before the first frame.
func (d *FrameTimeDiagnostics) FPS() float64 {
	if d.sum <= 0 {
		return 0
	}
	return float64(len(d.samples)) / d.sum
}

// FrameTime returns the average frame time in milliseconds.
func (d *FrameTimeDiagnostics) FrameTime() float64 {
	if len(d.samples) == 0 {
		return 0
	}
	return d.sum / float64(len(d.samples)) * 1000
}

func (d *FrameTimeDiagnostics) add(dt float64) {
	if len(d.samples) < frameWindow {
		d.samples = append(d.samples, dt)
		d.sum += dt
		return
	}
	d.sum += dt - d.samples[d.next]
	d.samples[d.next] = dt
	d.next = (d.next + 1) % frameWindow
}

// DiagnosticsPlugin measures frame times and logs them periodically.
type DiagnosticsPlugin struct{}

// Build registers the diagnostics systems.
func (DiagnosticsPlugin) Build(app *engine.App[GameState]) {
	engine.InitResource[FrameTimeDiagnostics](app.World())
	app.AddSystem(frameTimeDiagnostics, logDiagnostics)
}

func frameTimeDiagnostics(w *engine.World) {
	d := engine.MustResource[FrameTimeDiagnostics](w)
	now := d.now()
	if !d.lastFrame.IsZero() {
		if dt := now.Sub(d.lastFrame).Seconds(); dt > 0 {
			d.add(dt)
		}
	}
	d.lastFrame = now
}

func logDiagnostics(w *engine.World) {
	d := engine.MustResource[FrameTimeDiagnostics](w)
	t := engine.MustResource[engine.Time](w)
	if t.Elapsed-d.lastLog < logEverySeconds {
		return
	}
	d.lastLog = t.Elapsed
	engine.MustResource[log.Logger](w).Debug("diagnostics",
		"fps", d.FPS(),
		"frame_time_ms", d.FrameTime(),
		"entities", w.Len(),
		"state", engine.MustResource[engine.State[GameState]](w).Current(),
	)
}
