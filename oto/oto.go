// Package oto streams a kuoro.AudioSource to the default audio output using
// the oto library.
package oto

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/mkettu/kuoro"
)

type (
	// Context wraps an oto context configured for stereo float32 output.
	Context struct {
		context    *oto.Context
		sampleRate int
	}

	// Player plays one AudioSource. Closing it stops the playback; the
	// context can keep creating new players.
	Player struct {
		player *oto.Player
	}
)

// NewContext acquires the audio device. Non-positive sample rates default to
// 44100 Hz. The underlying device stays open for the lifetime of the
// process; oto contexts cannot be closed.
func NewContext(sampleRate int) (*Context, error) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate}, nil
}

// Play starts pulling audio from the source and playing it back. The source
// is read from the playback goroutine; sources shared with other goroutines
// must do their own locking.
func (c *Context) Play(source kuoro.AudioSource) *Player {
	player := c.context.NewPlayer(&sourceReader{source: source})
	player.Play()
	return &Player{player: player}
}

// Close stops the playback and disposes of the player.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
