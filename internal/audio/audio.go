// Package audio plays the game's looped channels and one-shot effects.
package audio

import "github.com/gopxl/beep"

// Channel names a looped sound slot that can be paused and resumed.
type Channel string

const (
	ChannelDigging Channel = "digging"
	ChannelFlying  Channel = "flying"
)

// Kind identifies a synthesized sound.
type Kind int

const (
	KindDig Kind = iota
	KindFlight
	KindWaste
	KindFuel
	KindThud
)

func (k Kind) String() string {
	switch k {
	case KindDig:
		return "dig"
	case KindFlight:
		return "flight"
	case KindWaste:
		return "waste"
	case KindFuel:
		return "fuel"
	case KindThud:
		return "thud"
	default:
		return "unknown"
	}
}

// Sound is a decoded or synthesized sample buffer.
type Sound struct {
	Kind   Kind
	Buffer *beep.Buffer
}

// Player is the sound output used by the game.
type Player interface {
	SetVolume(ch Channel, volume float64)
	PlayLooped(ch Channel, s Sound)
	Pause(ch Channel)
	Resume(ch Channel)
	Stop(ch Channel)
	Play(s Sound)
	Close()
}

// Nop discards all sound. Used for muted and remote sessions.
type Nop struct{}

func (Nop) SetVolume(Channel, float64) {}
func (Nop) PlayLooped(Channel, Sound)  {}
func (Nop) Pause(Channel)              {}
func (Nop) Resume(Channel)             {}
func (Nop) Stop(Channel)               {}
func (Nop) Play(Sound)                 {}
func (Nop) Close()                     {}

var (
	_ Player = Nop{}
	_ Player = (*SoundManager)(nil)
)
