//go:build headless
// +build headless

package audiosink

// Context is a no-op stand-in for headless builds, where ebiten's audio
// driver isn't linked in.
type Context struct{}

// NewContext returns a Context that mints no-op Players (headless builds
// have no audio device to drive).
func NewContext(sampleRate int) *Context { return &Context{} }

// Player discards audio.
type Player struct{}

func (c *Context) NewPlayer(source Source, volume float32) (*Player, error) {
	return &Player{}, nil
}

func (p *Player) SetVolume(volume float32) {}

func (p *Player) Close() error { return nil }
