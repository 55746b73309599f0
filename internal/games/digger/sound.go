package digger

import (
	"github.com/vovakirdan/digger/internal/audio"
	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/engine"
)

// AudioChannels is the sound output of the session.
type AudioChannels struct {
	Player audio.Player
}

// AudioPlugin drives the digging and flying loops, the pickup sounds and
// the thud of hard landings.
type AudioPlugin struct {
	Player audio.Player
}

// Build registers the audio systems.
func (p AudioPlugin) Build(app *engine.App[GameState]) {
	player := p.Player
	if player == nil {
		player = audio.Nop{}
	}
	engine.Insert(app.World(), &AudioChannels{Player: player})
	app.OnEnter(StatePlaying, startAudio)
	app.OnUpdate(StatePlaying, playFlyingAndDiggingSounds, collectWaste, collectFuel, hardLanding)
	app.OnExit(StatePlaying, stopAudio)
}

func startAudio(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	assets, ok := engine.Resource[AudioAssets](w)
	if !ok {
		return
	}
	volume := engine.MustResource[config.DiggerConfig](w).Audio.Volume
	p.SetVolume(audio.ChannelFlying, volume)
	p.SetVolume(audio.ChannelDigging, volume)
	p.PlayLooped(audio.ChannelFlying, assets.Flying)
	p.PlayLooped(audio.ChannelDigging, assets.Digging)
	p.Pause(audio.ChannelFlying)
	p.Pause(audio.ChannelDigging)
}

func stopAudio(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	p.Stop(audio.ChannelFlying)
	p.Stop(audio.ChannelDigging)
}

func playFlyingAndDiggingSounds(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	st := engine.MustResource[DiggerState](w)
	if engine.MustResource[Actions](w).Flying && !st.Dead {
		p.Resume(audio.ChannelFlying)
	} else {
		p.Pause(audio.ChannelFlying)
	}
	if st.MiningTarget != nil {
		p.Resume(audio.ChannelDigging)
	} else {
		p.Pause(audio.ChannelDigging)
	}
}

func collectWaste(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	assets, ok := engine.Resource[AudioAssets](w)
	if !ok {
		return
	}
	for range engine.Read[WasteCollected](w) {
		p.Play(assets.Waste)
	}
}

func collectFuel(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	assets, ok := engine.Resource[AudioAssets](w)
	if !ok {
		return
	}
	for range engine.Read[FuelUpgrade](w) {
		p.Play(assets.Fuel)
	}
}

// hardLanding thumps when a fall ends faster than the damage threshold.
func hardLanding(w *engine.World) {
	p := engine.MustResource[AudioChannels](w).Player
	assets, ok := engine.Resource[AudioAssets](w)
	if !ok {
		return
	}
	threshold := engine.MustResource[config.DiggerConfig](w).Digger.FallDamageSpeed
	for _, ev := range engine.Read[Landed](w) {
		if ev.Speed > threshold {
			p.Play(assets.Landing)
		}
	}
}
