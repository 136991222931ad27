package osc

import (
	"math"

	"github.com/mkettu/kuoro"
)

const (
	envOff = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// Voice is a monophonic voice with two oscillators sharing a pitch, the
// second one detunable against the first, and a linear ADSR envelope. It
// implements kuoro.Voice.
//
// Parameters understood by SetParameters: "detune" (semitone offset of the
// second oscillator), "gain" (output level) and "shape" (below 0.5 sine, 0.5
// and above sawtooth). Unknown keys are ignored.
type Voice struct {
	synth *Synth

	note   byte
	env    kuoro.Envelope
	detune float64
	gain   float64
	shape  float64

	armed     bool
	playNote  byte
	startAt   int64
	releaseAt int64

	state   int
	level   float64
	relStep float64
	phase   [2]float64
}

// Play arms the voice: the note starts offset seconds from the current
// position of the shared clock and is held for duration seconds before the
// release phase begins. An armed or sounding voice restarts from the attack
// phase.
func (v *Voice) Play(offset, duration float64) error {
	v.synth.mu.Lock()
	defer v.synth.mu.Unlock()
	rate := float64(v.synth.sampleRate)
	v.armed = true
	v.playNote = v.note // latch the pitch; SetNote only affects later Plays
	v.startAt = v.synth.time + int64(offset*rate)
	v.releaseAt = v.startAt + int64(duration*rate)
	return nil
}

// SetEnvelope sets the envelope used by subsequent Play calls. Negative
// times are rejected with an error wrapping kuoro.ErrInvalidArgument.
func (v *Voice) SetEnvelope(env kuoro.Envelope) error {
	if err := env.Validate(); err != nil {
		return err
	}
	v.synth.mu.Lock()
	defer v.synth.mu.Unlock()
	v.env = env
	return nil
}

// SetNote updates the pitch, as a MIDI note number, used by subsequent Play
// calls. A note that is already sounding keeps its pitch.
func (v *Voice) SetNote(note byte) error {
	v.synth.mu.Lock()
	defer v.synth.mu.Unlock()
	v.note = note
	return nil
}

// SetParameters picks the keys the voice knows and ignores the rest.
func (v *Voice) SetParameters(params kuoro.Parameters) error {
	v.synth.mu.Lock()
	defer v.synth.mu.Unlock()
	if detune, ok := params["detune"]; ok {
		v.detune = detune
	}
	if gain, ok := params["gain"]; ok {
		v.gain = gain
	}
	if shape, ok := params["shape"]; ok {
		v.shape = shape
	}
	return nil
}

// render writes the voice output into buf, assigning every element. tstart
// is the shared clock position of buf[0]. Called by the synth with the synth
// mutex held.
func (v *Voice) render(buf []float32, tstart int64) {
	rate := float64(v.synth.sampleRate)
	freq := noteFreq(v.playNote)
	inc1 := freq / rate
	inc2 := freq * math.Exp2(v.detune/12) / rate
	for i := range buf {
		t := tstart + int64(i)
		if v.armed && t >= v.startAt {
			v.armed = false
			v.state = envAttack
			v.level = 0
			v.phase = [2]float64{}
		}
		if v.state != envOff && v.state != envRelease && t >= v.releaseAt {
			v.enterRelease(rate)
		}
		if v.state == envOff {
			buf[i] = 0
			continue
		}
		v.advanceEnvelope(rate)
		sample := v.oscillate(&v.phase[0], inc1) + v.oscillate(&v.phase[1], inc2)
		buf[i] = float32(sample * 0.5 * v.gain * v.level)
	}
}

func (v *Voice) enterRelease(rate float64) {
	if v.env.Release <= 0 {
		v.state = envOff
		v.level = 0
		return
	}
	v.state = envRelease
	v.relStep = v.level / (v.env.Release * rate)
}

func (v *Voice) advanceEnvelope(rate float64) {
	switch v.state {
	case envAttack:
		if v.env.Attack <= 0 {
			v.level = 1
		} else {
			v.level += 1 / (v.env.Attack * rate)
		}
		if v.level >= 1 {
			v.level = 1
			v.state = envDecay
		}
	case envDecay:
		// sustain ratios outside 0..1 are clamped rather than rejected
		sustain := math.Min(math.Max(v.env.Sustain, 0), 1)
		if v.env.Decay <= 0 {
			v.level = sustain
		} else {
			v.level -= (1 - sustain) / (v.env.Decay * rate)
		}
		if v.level <= sustain {
			v.level = sustain
			v.state = envSustain
		}
	case envRelease:
		v.level -= v.relStep
		if v.level <= 0 {
			v.level = 0
			v.state = envOff
		}
	}
}

func (v *Voice) oscillate(phase *float64, inc float64) float64 {
	p := *phase
	next := p + inc
	*phase = next - math.Floor(next)
	if v.shape >= 0.5 { // sawtooth
		return 2*p - 1
	}
	return math.Sin(2 * math.Pi * p)
}

func noteFreq(note byte) float64 {
	return 440 * math.Exp2((float64(note)-69)/12)
}
