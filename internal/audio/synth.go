package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// generator renders one mono sample at time t seconds into the sound.
type generator func(t float64) float64

// render runs g for d and stores the result as a stereo buffer.
func render(sr beep.SampleRate, d time.Duration, g generator) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	total := sr.N(d)
	pos := 0
	buf.Append(beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			v := g(float64(pos) / float64(sr))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	}))
	return buf
}

// Synthesize builds the sample buffer for a sound kind.
func Synthesize(kind Kind, sr beep.SampleRate) *beep.Buffer {
	switch kind {
	case KindDig:
		return render(sr, 400*time.Millisecond, digCrunch())
	case KindFlight:
		return render(sr, time.Second, flightHum)
	case KindWaste:
		return render(sr, 450*time.Millisecond, chime(523.25, 659.25, 783.99))
	case KindFuel:
		return render(sr, 300*time.Millisecond, sweep(300, 900, 0.3))
	case KindThud:
		return render(sr, 200*time.Millisecond, thud)
	default:
		return beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	}
}

// SynthesizeAll builds every sound kind.
func SynthesizeAll(sr beep.SampleRate) map[Kind]Sound {
	out := make(map[Kind]Sound, 5)
	for _, k := range []Kind{KindDig, KindFlight, KindWaste, KindFuel, KindThud} {
		out[k] = Sound{Kind: k, Buffer: Synthesize(k, sr)}
	}
	return out
}

// digCrunch is filtered noise in four short bursts with a low rumble.
func digCrunch() generator {
	seed := int64(0x2545F491)
	last := 0.0
	return func(t float64) float64 {
		seed = (seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(seed)/float64(0x7fffffff)*2 - 1
		last = 0.7*last + 0.3*noise

		phase := math.Mod(t, 0.1)
		env := math.Exp(-phase * 40)
		rumble := 0.3 * math.Sin(2*math.Pi*70*t)
		return 0.5 * env * (0.8*last + rumble)
	}
}

// flightHum is a two-tone drone with slow tremolo.
func flightHum(t float64) float64 {
	tremolo := 0.75 + 0.25*math.Sin(2*math.Pi*4*t)
	s := 0.2*math.Sin(2*math.Pi*110*t) + 0.1*math.Sin(2*math.Pi*220*t)
	return s * tremolo
}

// chime plays notes in sequence, each with a fast decay.
func chime(freqs ...float64) generator {
	step := 0.15
	return func(t float64) float64 {
		i := int(t / step)
		if i >= len(freqs) {
			i = len(freqs) - 1
		}
		local := t - float64(i)*step
		env := math.Exp(-local * 12)
		return 0.3 * env * math.Sin(2*math.Pi*freqs[i]*t)
	}
}

// sweep glides from one frequency to another over d seconds.
func sweep(from, to, d float64) generator {
	phase := 0.0
	prev := 0.0
	return func(t float64) float64 {
		f := from + (to-from)*math.Min(t/d, 1)
		phase += 2 * math.Pi * f * (t - prev)
		prev = t
		env := 1 - math.Min(t/d, 1)
		return 0.3 * env * math.Sin(phase)
	}
}

// thud is a low sine that drops in pitch and dies out quickly.
func thud(t float64) float64 {
	f := 90 - 40*math.Min(t/0.2, 1)
	return 0.6 * math.Exp(-t*25) * math.Sin(2*math.Pi*f*t)
}
