package engine

import (
	"errors"
	"fmt"
)

// ErrTransitionQueued is returned by SetNext when a transition is already pending.
var ErrTransitionQueued = errors.New("engine: state transition already queued")

// ErrTransitionLoop is returned by Update when on-enter systems keep
// queueing transitions within a single frame.
var ErrTransitionLoop = errors.New("engine: too many state transitions in one frame")

// maxTransitionsPerFrame bounds chained transitions such as Restart -> GeneratingMap -> Playing.
const maxTransitionsPerFrame = 8

// System is a per-frame callback.
type System func(w *World)

// Plugin groups the systems and resources of one game feature.
type Plugin[S comparable] interface {
	Build(app *App[S])
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc[S comparable] func(app *App[S])

// Build calls f(app).
func (f PluginFunc[S]) Build(app *App[S]) { f(app) }

// State is the resource holding the current state and a pending transition.
type State[S comparable] struct {
	current S
	next    *S
}

// Current returns the active state.
func (s *State[S]) Current() S {
	return s.current
}

// SetNext queues a transition applied at the end of the frame.
func (s *State[S]) SetNext(next S) error {
	if s.next != nil {
		return fmt.Errorf("%w: %v (pending %v)", ErrTransitionQueued, next, *s.next)
	}
	s.next = &next
	return nil
}

// Set queues a transition, overwriting any pending one.
func (s *State[S]) Set(next S) {
	s.next = &next
}

// Pending returns the queued state, if any.
func (s *State[S]) Pending() (S, bool) {
	if s.next == nil {
		var zero S
		return zero, false
	}
	return *s.next, true
}

type hooks struct {
	enter  []System
	update []System
	exit   []System
}

// App wires plugins, systems and the state machine around a World.
type App[S comparable] struct {
	world   *World
	state   *State[S]
	always  []System
	byState map[S]*hooks
	started bool
}

// NewApp creates an app whose state machine starts in initial.
func NewApp[S comparable](initial S) *App[S] {
	w := NewWorld()
	st := &State[S]{current: initial}
	Insert(w, st)
	return &App[S]{
		world:   w,
		state:   st,
		byState: make(map[S]*hooks),
	}
}

// World returns the app's world.
func (a *App[S]) World() *World {
	return a.world
}

// State returns the current state.
func (a *App[S]) State() S {
	return a.state.current
}

// AddPlugin builds a plugin into the app.
func (a *App[S]) AddPlugin(p Plugin[S]) *App[S] {
	p.Build(a)
	return a
}

// AddSystem registers systems that run every frame before state systems.
func (a *App[S]) AddSystem(systems ...System) *App[S] {
	a.always = append(a.always, systems...)
	return a
}

func (a *App[S]) hooksFor(s S) *hooks {
	h, ok := a.byState[s]
	if !ok {
		h = &hooks{}
		a.byState[s] = h
	}
	return h
}

// OnEnter registers systems run once when s becomes active.
func (a *App[S]) OnEnter(s S, systems ...System) *App[S] {
	h := a.hooksFor(s)
	h.enter = append(h.enter, systems...)
	return a
}

// OnUpdate registers systems run every frame while s is active.
func (a *App[S]) OnUpdate(s S, systems ...System) *App[S] {
	h := a.hooksFor(s)
	h.update = append(h.update, systems...)
	return a
}

// OnExit registers systems run once when s stops being active.
func (a *App[S]) OnExit(s S, systems ...System) *App[S] {
	h := a.hooksFor(s)
	h.exit = append(h.exit, systems...)
	return a
}

func (a *App[S]) run(systems []System) {
	for _, sys := range systems {
		sys(a.world)
	}
}

// Update runs one frame of dt seconds.
// The first call enters the initial state before anything else runs.
func (a *App[S]) Update(dt float64) error {
	t := MustResource[Time](a.world)
	t.Delta = dt
	t.Elapsed += dt
	t.Frame++

	if !a.started {
		a.started = true
		if h, ok := a.byState[a.state.current]; ok {
			a.run(h.enter)
		}
		if err := a.applyTransitions(); err != nil {
			return err
		}
	}

	a.run(a.always)
	if h, ok := a.byState[a.state.current]; ok {
		a.run(h.update)
	}

	err := a.applyTransitions()
	a.world.clearEvents()
	return err
}

func (a *App[S]) applyTransitions() error {
	for i := 0; a.state.next != nil; i++ {
		if i >= maxTransitionsPerFrame {
			return fmt.Errorf("%w: stuck at %v", ErrTransitionLoop, a.state.current)
		}
		next := *a.state.next
		a.state.next = nil
		if h, ok := a.byState[a.state.current]; ok {
			a.run(h.exit)
		}
		a.state.current = next
		if h, ok := a.byState[next]; ok {
			a.run(h.enter)
		}
	}
	return nil
}
