package kuoro

import "io"

// Allocator owns a fixed pool of voices and routes note triggers to them in
// round-robin order: each Play goes to the voice under the cursor and the
// cursor then advances by one, wrapping around at the end of the pool. A
// voice is reused unconditionally when its turn comes again, whether or not
// its previous note has finished; voice stealing heuristics are the voice's
// own business.
//
// The allocator assumes a single writer. None of its methods lock, so callers
// triggering notes from several goroutines must serialize the calls
// themselves, e.g. by funneling them through one channel.
type Allocator struct {
	voices []Voice
	cursor int

	// CursorBroadcast reproduces a quirk of old players where envelope, note
	// and parameter changes were applied to only the voice currently under
	// the cursor instead of the whole pool. Leave it false unless you need
	// bug-for-bug compatibility with such a player.
	CursorBroadcast bool
}

// NewAllocator builds an allocator with numVoices voices, constructed by
// calling factory once per slot in index order. The voices live for the whole
// lifetime of the allocator and are owned by it exclusively. If the factory
// fails, the voices built so far are closed and the construction fails with
// an error wrapping ErrInvalidConfiguration.
func NewAllocator(numVoices int, factory VoiceFactory) (*Allocator, error) {
	if numVoices <= 0 {
		return nil, errInvalidConfigurationf("voice count must be positive, got %v", numVoices)
	}
	if factory == nil {
		return nil, errInvalidConfigurationf("voice factory is nil")
	}
	voices := make([]Voice, 0, numVoices)
	for i := 0; i < numVoices; i++ {
		v, err := factory()
		if err != nil {
			closeVoices(voices)
			return nil, errInvalidConfigurationf("voice %v: %v", i, err)
		}
		voices = append(voices, v)
	}
	return &Allocator{voices: voices}, nil
}

// NumVoices returns the size of the voice pool.
func (a *Allocator) NumVoices() int {
	return len(a.voices)
}

// Play triggers a note on the voice under the cursor and advances the cursor.
// offset is the delay in seconds before the note begins, duration how long
// the note is held before release; both must be non-negative. Exactly one
// voice is triggered per call. An error from the voice is propagated
// unchanged, but the cursor has advanced regardless: the trigger was
// consumed.
func (a *Allocator) Play(offset, duration float64) error {
	if offset < 0 {
		return errInvalidArgumentf("play offset must be non-negative, got %v", offset)
	}
	if duration < 0 {
		return errInvalidArgumentf("play duration must be non-negative, got %v", duration)
	}
	err := a.voices[a.cursor].Play(offset, duration)
	a.cursor = (a.cursor + 1) % len(a.voices)
	return err
}

// SetEnvelope applies the envelope to every voice in the pool, in index
// order. It never moves the cursor. The values are forwarded verbatim; a
// voice rejecting them aborts the broadcast, leaving the earlier voices
// already updated.
func (a *Allocator) SetEnvelope(env Envelope) error {
	return a.broadcast(func(v Voice) error { return v.SetEnvelope(env) })
}

// SetNote updates the pitch state of every voice in the pool, in index order,
// without triggering playback or moving the cursor.
func (a *Allocator) SetNote(note byte) error {
	return a.broadcast(func(v Voice) error { return v.SetNote(note) })
}

// SetParameters forwards the parameter bag to every voice in the pool, in
// index order. The allocator is agnostic to its contents.
func (a *Allocator) SetParameters(params Parameters) error {
	return a.broadcast(func(v Voice) error { return v.SetParameters(params) })
}

func (a *Allocator) broadcast(f func(Voice) error) error {
	if a.CursorBroadcast {
		return f(a.voices[a.cursor])
	}
	for _, v := range a.voices {
		if err := f(v); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the owned voices. Voices implementing io.Closer are closed
// in index order; the first error is returned but all voices are still
// closed. The allocator must not be used afterwards.
func (a *Allocator) Close() error {
	return closeVoices(a.voices)
}

func closeVoices(voices []Voice) error {
	var firstErr error
	for _, v := range voices {
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
