package oto

import (
	"encoding/binary"
	"math"

	"github.com/mkettu/kuoro"
)

// sourceReader adapts a kuoro.AudioSource to the io.Reader the oto player
// pulls from, encoding the samples as little-endian float32 stereo frames.
type sourceReader struct {
	source kuoro.AudioSource
	buffer kuoro.AudioBuffer
}

const frameBytes = 8 // 2 channels, 4 bytes each

func (r *sourceReader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	if len(r.buffer) < frames {
		r.buffer = make(kuoro.AudioBuffer, frames)
	}
	n, err := r.source.ReadAudio(r.buffer[:frames])
	if err != nil {
		return 0, err
	}
	for i, v := range r.buffer[:n] {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(v[1]))
	}
	return n * frameBytes, nil
}
