package osc_test

import (
	"math"
	"testing"

	"github.com/mkettu/kuoro"
	"github.com/mkettu/kuoro/osc"
)

// a low sample rate keeps the rendered buffers small
const testRate = 1000

func newPool(t *testing.T, numVoices int) (*kuoro.Allocator, *osc.Synth) {
	t.Helper()
	synth := osc.NewSynth(testRate)
	alloc, err := kuoro.NewAllocator(numVoices, synth.Factory())
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	return alloc, synth
}

func render(t *testing.T, synth *osc.Synth, samples int) kuoro.AudioBuffer {
	t.Helper()
	buffer := make(kuoro.AudioBuffer, samples)
	if err := buffer.Fill(synth); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	return buffer
}

func peak(buffer kuoro.AudioBuffer) float64 {
	ret := 0.0
	for _, v := range buffer {
		ret = math.Max(ret, math.Abs(float64(v[0])))
	}
	return ret
}

func TestDeferredTriggerAndRelease(t *testing.T) {
	alloc, synth := newPool(t, 1)
	if err := alloc.SetEnvelope(kuoro.Envelope{Attack: 0, Decay: 0, Sustain: 1, Release: 0}); err != nil {
		t.Fatalf("SetEnvelope failed: %v", err)
	}
	if err := alloc.Play(0.5, 0.25); err != nil { // sounding between samples 500 and 750
		t.Fatalf("Play failed: %v", err)
	}
	if p := peak(render(t, synth, 400)); p != 0 {
		t.Fatalf("voice should be silent before the play offset, got peak %v", p)
	}
	buffer := render(t, synth, 400) // samples 400..800
	if p := peak(buffer[:100]); p != 0 {
		t.Fatalf("voice should stay silent until sample 500, got peak %v", p)
	}
	if p := peak(buffer[100:350]); p < 0.1 {
		t.Fatalf("voice should be sounding after the play offset, got peak %v", p)
	}
	if p := peak(buffer[350:]); p != 0 {
		t.Fatalf("voice should be silent after an instant release, got peak %v", p)
	}
}

func TestSawShapeFirstSample(t *testing.T) {
	alloc, synth := newPool(t, 1)
	if err := alloc.SetEnvelope(kuoro.Envelope{Attack: 0, Decay: 0, Sustain: 1, Release: 0}); err != nil {
		t.Fatalf("SetEnvelope failed: %v", err)
	}
	if err := alloc.SetParameters(kuoro.Parameters{"shape": 1}); err != nil {
		t.Fatalf("SetParameters failed: %v", err)
	}
	if err := alloc.Play(0, 1); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	buffer := render(t, synth, 1)
	// both sawtooths start at -1, the instant attack is at full level and the
	// default gain is 0.5, so the first sample is exactly -0.5
	if buffer[0][0] != -0.5 || buffer[0][1] != -0.5 {
		t.Fatalf("expected first sample [-0.5 -0.5], got %v", buffer[0])
	}
}

func TestAttackRampsUp(t *testing.T) {
	alloc, synth := newPool(t, 1)
	if err := alloc.SetEnvelope(kuoro.Envelope{Attack: 0.1, Decay: 0, Sustain: 1, Release: 0}); err != nil {
		t.Fatalf("SetEnvelope failed: %v", err)
	}
	if err := alloc.SetParameters(kuoro.Parameters{"shape": 1}); err != nil {
		t.Fatalf("SetParameters failed: %v", err)
	}
	if err := alloc.Play(0, 1); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	buffer := render(t, synth, 100)
	early, late := peak(buffer[:20]), peak(buffer[80:])
	if early >= late {
		t.Fatalf("attack should ramp the level up, got early peak %v, late peak %v", early, late)
	}
}

func TestPitchLatchedAtPlay(t *testing.T) {
	allocA, synthA := newPool(t, 1)
	allocB, synthB := newPool(t, 1)
	for _, alloc := range []*kuoro.Allocator{allocA, allocB} {
		if err := alloc.SetNote(69); err != nil {
			t.Fatalf("SetNote failed: %v", err)
		}
		if err := alloc.Play(0, 1); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	}
	// a note broadcast after the trigger must not bend the sounding note
	if err := allocB.SetNote(81); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}
	bufferA := render(t, synthA, 100)
	bufferB := render(t, synthB, 100)
	for i := range bufferA {
		if bufferA[i] != bufferB[i] {
			t.Fatalf("output changed at sample %v: %v vs %v", i, bufferA[i], bufferB[i])
		}
	}
}

func TestVoicesAreMixed(t *testing.T) {
	allocSingle, synthSingle := newPool(t, 1)
	allocPair, synthPair := newPool(t, 2)
	if err := allocSingle.Play(0, 1); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := allocPair.Play(0, 1); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	}
	single := render(t, synthSingle, 100)
	pair := render(t, synthPair, 100)
	for i := range single {
		if pair[i][0] != 2*single[i][0] {
			t.Fatalf("two identical voices should sum to twice one voice at sample %v: %v vs %v", i, pair[i][0], single[i][0])
		}
	}
}

func TestEnvelopeRejectsNegativeTimes(t *testing.T) {
	alloc, _ := newPool(t, 2)
	err := alloc.SetEnvelope(kuoro.Envelope{Attack: -1})
	if err == nil {
		t.Fatalf("expected an error for a negative attack time")
	}
}
