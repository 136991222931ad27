package kuoro_test

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/mkettu/kuoro"
	"github.com/stretchr/testify/assert"
)

const (
	wavHeaderFloat = 58
	wavHeaderPCM16 = 44
)

func TestWav(t *testing.T) {
	buffer := kuoro.AudioBuffer{{0, 0}, {0.5, -0.5}, {2, -2}, {1, 1}}
	wav, err := buffer.Wav(false)
	assert.Nil(t, err)
	assert.Equal(t, wavHeaderFloat+len(buffer)*8, len(wav))
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))

	pcm, err := buffer.Wav(true)
	assert.Nil(t, err)
	assert.Equal(t, wavHeaderPCM16+len(buffer)*4, len(pcm))
}

func TestRawClamps(t *testing.T) {
	buffer := kuoro.AudioBuffer{{2, -2}}
	raw, err := buffer.Raw(true)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(raw))
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(raw[0:])), "overflowing samples should clamp")
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(raw[2:])))
}

// shortSource produces a fixed number of constant samples and then EOF.
type shortSource struct {
	left int
}

func (s *shortSource) ReadAudio(buffer kuoro.AudioBuffer) (int, error) {
	if s.left == 0 {
		return 0, io.EOF
	}
	n := min(s.left, len(buffer))
	for i := 0; i < n; i++ {
		buffer[i] = [2]float32{1, 1}
	}
	s.left -= n
	return n, nil
}

func TestFillStopsAtEOF(t *testing.T) {
	buffer := make(kuoro.AudioBuffer, 8)
	assert.Nil(t, buffer.Fill(&shortSource{left: 5}))
	assert.Equal(t, [2]float32{1, 1}, buffer[4])
	assert.Equal(t, [2]float32{0, 0}, buffer[5], "the remainder stays zeroed after EOF")
}
