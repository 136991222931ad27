// Package osc implements a reference voice for the kuoro allocator: a pair
// of detunable oscillators shaped by a linear ADSR envelope. All voices
// created by one Synth share a sample clock and are mixed into one stereo
// output, so the Synth can be streamed to an audio output directly.
package osc

import (
	"sync"

	"github.com/mkettu/kuoro"
	"github.com/viterin/vek/vek32"
)

// Synth is the render group owning the voices. It implements
// kuoro.AudioSource; one ReadAudio call advances the shared sample clock by
// the length of the buffer. The zero value is not usable, use NewSynth.
//
// Triggering and rendering may happen on different goroutines (e.g. a MIDI
// loop and the audio output), so the synth serializes voice calls and
// rendering with an internal mutex.
type Synth struct {
	mu         sync.Mutex
	sampleRate int
	voices     []*Voice
	time       int64

	mix     []float32
	scratch []float32
}

// NewSynth creates an empty render group running at the given sample rate.
// Non-positive rates default to 44100 Hz.
func NewSynth(sampleRate int) *Synth {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Synth{sampleRate: sampleRate}
}

// Factory returns a kuoro.VoiceFactory that constructs voices registered to
// this render group. Passing it to kuoro.NewAllocator builds the whole pool
// in one go.
func (s *Synth) Factory() kuoro.VoiceFactory {
	return func() (kuoro.Voice, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		v := &Voice{
			synth: s,
			note:  69,
			gain:  0.5,
			env:   kuoro.Envelope{Attack: 0.01, Decay: 0.05, Sustain: 0.7, Release: 0.05},
		}
		s.voices = append(s.voices, v)
		return v, nil
	}
}

// SampleRate returns the sample rate the group renders at.
func (s *Synth) SampleRate() int {
	return s.sampleRate
}

// ReadAudio mixes all voices into the buffer and advances the shared clock.
// It always fills the whole buffer; a silent pool produces zeros.
func (s *Synth) ReadAudio(buffer kuoro.AudioBuffer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(buffer)
	if len(s.mix) < n {
		s.mix = make([]float32, n)
		s.scratch = make([]float32, n)
	}
	mix := vek32.Zeros_Into(s.mix, n)
	for _, v := range s.voices {
		v.render(s.scratch[:n], s.time)
		vek32.Add_Inplace(mix, s.scratch[:n])
	}
	for i := range buffer {
		buffer[i][0] = mix[i]
		buffer[i][1] = mix[i]
	}
	s.time += int64(n)
	return n, nil
}
