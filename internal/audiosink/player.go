//go:build !headless
// +build !headless

package audiosink

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Context owns the ebiten audio driver and mints players against it, one
// per APU sample source (the emulator only ever opens one, but tests open
// their own to stay isolated from package-level ebiten state).
type Context struct {
	ctx *audio.Context
}

// NewContext opens the audio driver at the given sample rate.
func NewContext(sampleRate int) *Context {
	return &Context{ctx: audio.NewContext(sampleRate)}
}

// Player drives an ebiten audio.Player from a Stream.
type Player struct {
	stream *Stream
	player *audio.Player
}

// NewPlayer creates a Player reading from source and starts it looping
// indefinitely (the Stream never signals EOF).
func (c *Context) NewPlayer(source Source, volume float32) (*Player, error) {
	stream := NewStream(source, volume)
	player, err := c.ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("audiosink: create player: %w", err)
	}
	player.Play()
	return &Player{stream: stream, player: player}, nil
}

// SetVolume adjusts playback volume (0.0-1.0).
func (p *Player) SetVolume(volume float32) { p.stream.SetVolume(volume) }

// Close stops playback and releases the underlying ebiten player.
func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
