package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow - drive left
	ActionRight           // D, Right arrow - drive right
	ActionFly             // W, Up, Space - fire the thruster
	ActionMineDown        // S, Down - drill the tile below
	ActionUp              // menu navigation
	ActionDown            // menu navigation
	ActionConfirm         // Enter - press the focused button
	ActionBack            // B, Escape - go back to menu
	ActionRestart         // R key - restart after the run ended
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFly:
		return "Fly"
	case ActionMineDown:
		return "MineDown"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Pointer is a mouse position in screen cells.
type Pointer struct {
	X, Y int
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions holds the actions triggered (pressed) during this frame.
	Actions map[Action]bool

	// Held holds the actions whose keys are considered held down.
	Held map[Action]bool

	// Pointer is the last known mouse position, nil if the mouse never moved.
	Pointer *Pointer

	// Click is set when the primary mouse button was pressed this frame.
	Click bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Held:    make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Hold marks an action as held for this frame.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// IsHeld returns true if the given action is held this frame.
func (f InputFrame) IsHeld(a Action) bool {
	if f.Held == nil {
		return false
	}
	return f.Held[a]
}

// Clear resets triggered actions and the click for the next frame.
// Held actions and the pointer position carry over.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Click = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	for k, v := range f.Held {
		clone.Held[k] = v
	}
	if f.Pointer != nil {
		p := *f.Pointer
		clone.Pointer = &p
	}
	clone.Click = f.Click
	return clone
}

// HoldTracker turns a stream of key presses into held state.
// Terminals report key presses and auto-repeats but never releases, so a key
// counts as held until no repeat has been seen for the hold window.
type HoldTracker struct {
	window   time.Duration
	lastSeen map[Action]time.Time
	order    map[Action]uint64
	seq      uint64
}

// NewHoldTracker creates a tracker with the given hold window.
func NewHoldTracker(window time.Duration) *HoldTracker {
	if window <= 0 {
		window = 150 * time.Millisecond
	}
	return &HoldTracker{
		window:   window,
		lastSeen: make(map[Action]time.Time),
		order:    make(map[Action]uint64),
	}
}

// Press records a press (or auto-repeat) of an action at the given time.
// The returned value reports whether this is a fresh press rather than a repeat.
func (h *HoldTracker) Press(a Action, now time.Time) bool {
	last, ok := h.lastSeen[a]
	fresh := !ok || now.Sub(last) > h.window
	h.lastSeen[a] = now
	if fresh {
		h.seq++
		h.order[a] = h.seq
	}
	return fresh
}

// Release forgets an action immediately.
func (h *HoldTracker) Release(a Action) {
	delete(h.lastSeen, a)
	delete(h.order, a)
}

// Held reports whether the action is held at the given time.
func (h *HoldTracker) Held(a Action, now time.Time) bool {
	last, ok := h.lastSeen[a]
	if !ok {
		return false
	}
	if now.Sub(last) > h.window {
		delete(h.lastSeen, a)
		delete(h.order, a)
		return false
	}
	return true
}

// Latest returns which of the given actions was freshly pressed most recently
// among those still held, or ActionNone.
func (h *HoldTracker) Latest(now time.Time, actions ...Action) Action {
	best := ActionNone
	var bestSeq uint64
	for _, a := range actions {
		if !h.Held(a, now) {
			continue
		}
		if seq := h.order[a]; seq >= bestSeq {
			best = a
			bestSeq = seq
		}
	}
	return best
}

// Fill copies the held state at the given time into the frame.
// Of left/right only the most recent one is reported as held.
func (h *HoldTracker) Fill(frame *InputFrame, now time.Time) {
	for k := range frame.Held {
		delete(frame.Held, k)
	}
	for a := range h.lastSeen {
		if a == ActionLeft || a == ActionRight {
			continue
		}
		if h.Held(a, now) {
			frame.Hold(a)
		}
	}
	if dir := h.Latest(now, ActionLeft, ActionRight); dir != ActionNone {
		frame.Hold(dir)
	}
}
