package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is used when no rate is configured.
const DefaultSampleRate = beep.SampleRate(44100)

type channel struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// SoundManager mixes looped channels and one-shot sounds onto the speaker.
// Every method is safe to call before Initialize or after Close; the mixer
// then keeps its state without producing output.
type SoundManager struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	channels    map[Channel]*channel
	levels      map[Channel]float64
	initialized bool
}

// NewSoundManager creates a sound manager for the given sample rate.
func NewSoundManager(sampleRate int) *SoundManager {
	sr := beep.SampleRate(sampleRate)
	if sr <= 0 {
		sr = DefaultSampleRate
	}
	return &SoundManager{
		sampleRate: sr,
		mixer:      &beep.Mixer{},
		channels:   make(map[Channel]*channel),
		levels:     make(map[Channel]float64),
	}
}

// SampleRate returns the output rate sounds should be synthesized at.
func (sm *SoundManager) SampleRate() beep.SampleRate {
	return sm.sampleRate
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sm.sampleRate, sm.sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Close stops all sounds and releases the speaker.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.locked(func() {
		for _, ch := range sm.channels {
			ch.ctrl.Paused = true
		}
		sm.mixer.Clear()
	})
	sm.channels = make(map[Channel]*channel)

	if sm.initialized {
		speaker.Close()
		sm.initialized = false
	}
}

// locked runs f while holding the speaker lock when the speaker is streaming.
func (sm *SoundManager) locked(f func()) {
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	f()
}

// SetVolume sets a channel's linear volume. It applies to the running loop
// and to loops started later.
func (sm *SoundManager) SetVolume(ch Channel, volume float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.levels[ch] = volume
	if c, ok := sm.channels[ch]; ok {
		sm.locked(func() { applyVolume(c.volume, volume) })
	}
}

// PlayLooped replaces whatever the channel was playing with an endless loop of s.
func (sm *SoundManager) PlayLooped(ch Channel, s Sound) {
	if s.Buffer == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	level, ok := sm.levels[ch]
	if !ok {
		level = 1
	}
	loop := beep.Loop(-1, s.Buffer.Streamer(0, s.Buffer.Len()))
	ctrl := &beep.Ctrl{Streamer: loop, Paused: false}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	applyVolume(vol, level)

	sm.locked(func() {
		if old, ok := sm.channels[ch]; ok {
			old.ctrl.Streamer = nil
		}
		sm.mixer.Add(vol)
	})
	sm.channels[ch] = &channel{ctrl: ctrl, volume: vol}
}

// Pause silences a channel, keeping its position.
func (sm *SoundManager) Pause(ch Channel) {
	sm.setPaused(ch, true)
}

// Resume continues a paused channel.
func (sm *SoundManager) Resume(ch Channel) {
	sm.setPaused(ch, false)
}

func (sm *SoundManager) setPaused(ch Channel, paused bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	c, ok := sm.channels[ch]
	if !ok || c.ctrl.Paused == paused {
		return
	}
	sm.locked(func() { c.ctrl.Paused = paused })
}

// Stop ends a channel's loop and removes it from the mixer.
func (sm *SoundManager) Stop(ch Channel) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	c, ok := sm.channels[ch]
	if !ok {
		return
	}
	// A Ctrl without a streamer reports drained, so the mixer drops it.
	sm.locked(func() { c.ctrl.Streamer = nil })
	delete(sm.channels, ch)
}

// Play mixes in a one-shot sound.
func (sm *SoundManager) Play(s Sound) {
	if s.Buffer == nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.locked(func() { sm.mixer.Add(s.Buffer.Streamer(0, s.Buffer.Len())) })
}

// Playing reports whether a channel has an unpaused loop.
func (sm *SoundManager) Playing(ch Channel) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	c, ok := sm.channels[ch]
	return ok && !c.ctrl.Paused
}

// Active reports whether a channel has a loop, paused or not.
func (sm *SoundManager) Active(ch Channel) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, ok := sm.channels[ch]
	return ok
}

// applyVolume maps a linear volume onto the logarithmic effect.
// math.Log2(0) is -Inf, so zero volume is handled by silencing.
func applyVolume(v *effects.Volume, volume float64) {
	if volume <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(volume)
	v.Silent = false
}
