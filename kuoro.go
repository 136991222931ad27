// Package kuoro manages a fixed pool of monophonic synthesizer voices. It
// allocates incoming note triggers to the voices in round-robin order and
// broadcasts shared settings (envelope, note, free-form parameters) across the
// pool. The package does not generate or mix any audio itself; concrete
// voices implementing the Voice interface are supplied by the caller. The osc
// subpackage contains a reference oscillator voice, and cmd/kuoro-play wires
// everything to an audio output.
package kuoro

type (
	// Voice is a single monophonic sound producing unit that can be
	// triggered, re-pitched, enveloped and parameterized independently of the
	// other voices in the pool. Implementations are free to schedule the
	// actual sound asynchronously; the allocator only dispatches calls.
	Voice interface {
		// Play triggers a note on the voice. offset is the delay, in
		// seconds, before the note begins (0 means immediately) and duration
		// is how long the note is held before its release phase starts. A
		// voice that is still sounding restarts; the allocator never checks
		// whether the previous note has finished.
		Play(offset, duration float64) error

		// SetEnvelope reconfigures the amplitude envelope used by subsequent
		// Play calls.
		SetEnvelope(env Envelope) error

		// SetNote updates the pitch state, as a MIDI note number, used by
		// subsequent Play calls. It does not trigger playback.
		SetNote(note byte) error

		// SetParameters applies implementation specific settings. Voices
		// should pick the keys they know and ignore the rest.
		SetParameters(params Parameters) error
	}

	// VoiceFactory produces a fresh Voice. The allocator calls it once per
	// voice slot, in index order, at construction time.
	VoiceFactory func() (Voice, error)

	// Envelope is an attack/decay/sustain/release amplitude shape. Attack,
	// Decay and Release are times in seconds; Sustain is the ratio of the
	// sustain level to the peak level, conventionally within 0 and 1.
	Envelope struct {
		Attack  float64 `yaml:"attack"`
		Decay   float64 `yaml:"decay"`
		Sustain float64 `yaml:"sustain"`
		Release float64 `yaml:"release"`
	}

	// Parameters is a free-form bag of named settings, understood only by the
	// concrete voice implementation. The allocator forwards it verbatim.
	Parameters map[string]float64
)

// Validate returns an error wrapping ErrInvalidArgument if any of the
// envelope values is negative. The sustain ratio is deliberately not checked
// against an upper bound; values beyond 1 are forwarded as given.
func (e Envelope) Validate() error {
	if e.Attack < 0 || e.Decay < 0 || e.Release < 0 || e.Sustain < 0 {
		return errInvalidArgumentf("envelope values must be non-negative, got %+v", e)
	}
	return nil
}

// Copy makes a deep copy of the parameter bag.
func (p Parameters) Copy() Parameters {
	ret := make(Parameters, len(p))
	for k, v := range p {
		ret[k] = v
	}
	return ret
}
