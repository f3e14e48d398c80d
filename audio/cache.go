package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/coaster/event"
)

// toneCache stores rendered samples of the sound bank
type toneCache struct {
	mu     sync.RWMutex
	format beep.Format
	store  [event.SoundCount]*beep.Buffer
}

func newToneCache(format beep.Format) *toneCache {
	return &toneCache{format: format}
}

// get returns the rendered sample, rendering it on first use
func (c *toneCache) get(s event.Sound) *beep.Buffer {
	if s >= event.SoundCount {
		return nil
	}

	c.mu.RLock()
	buf := c.store[s]
	c.mu.RUnlock()
	if buf != nil {
		return buf
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store[s] != nil {
		return c.store[s]
	}
	buf = beep.NewBuffer(c.format)
	buf.Append(render(s, c.format.SampleRate))
	c.store[s] = buf
	return buf
}

// preload renders the looping samples every moving vehicle needs
func (c *toneCache) preload() {
	for s := event.Sound(0); s < event.SoundCount; s++ {
		if s.Looping() {
			c.get(s)
		}
	}
}
