package sim

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viewcell/engine-bridge/wire"
)

// Engine kinds a scenario can select.
const (
	EngineCanvas    = "canvas"
	EngineCartridge = "cartridge"
)

// Config is a complete scenario.
type Config struct {
	View   ViewConfig   `yaml:"view"`
	Engine EngineConfig `yaml:"engine"`

	// Frames is the number of frames to drive.
	Frames uint64 `yaml:"frames"`

	// Rate is the nominal frame rate used by interactive runs; headless
	// runs ignore it and drive frames back to back. 0 means 60.
	Rate int `yaml:"rate"`

	Events []Event `yaml:"events"`
}

// ViewConfig is the simulated view geometry.
type ViewConfig struct {
	Width  uint32  `yaml:"width"`
	Height uint32  `yaml:"height"`
	Scale  float32 `yaml:"scale"`
}

// EngineConfig selects the engine a scenario embeds.
type EngineConfig struct {
	// Kind is "canvas" or "cartridge".
	Kind string `yaml:"kind"`

	// Module is the cartridge .wasm path; cartridge kind only.
	Module string `yaml:"module"`
}

// Event is one scripted action, applied before the numbered frame. At
// most one of Touch, Send, and Resize is set.
type Event struct {
	Frame  uint64       `yaml:"frame"`
	Touch  *TouchEvent  `yaml:"touch"`
	Send   *SendEvent   `yaml:"send"`
	Resize *ResizeEvent `yaml:"resize"`
}

// TouchEvent injects one touch through the bridge.
type TouchEvent struct {
	Phase uint8   `yaml:"phase"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	ID    uint64  `yaml:"id"`
}

// SendEvent submits one host-to-engine payload: either a 16-byte color
// vector or raw hex bytes.
type SendEvent struct {
	Color []float32 `yaml:"color"`
	Raw   string    `yaml:"raw"`
}

// Payload encodes the event's bytes.
func (e *SendEvent) Payload() ([]byte, error) {
	switch {
	case len(e.Color) > 0:
		if len(e.Color) != 4 {
			return nil, fmt.Errorf("color payload needs 4 components, got %d", len(e.Color))
		}
		return wire.EncodeColor(wire.Color{e.Color[0], e.Color[1], e.Color[2], e.Color[3]}), nil
	case e.Raw != "":
		payload, err := hex.DecodeString(e.Raw)
		if err != nil {
			return nil, fmt.Errorf("decode raw payload: %w", err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("send event has neither color nor raw bytes")
	}
}

// ResizeEvent replaces the surface descriptor mid-run.
type ResizeEvent struct {
	Width  uint32  `yaml:"width"`
	Height uint32  `yaml:"height"`
	Scale  float32 `yaml:"scale"`
}

// Load reads and validates a scenario file.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate fills defaults and rejects inconsistent scenarios.
func (c *Config) Validate() error {
	if c.View.Width == 0 || c.View.Height == 0 {
		return fmt.Errorf("view is %dx%d; both dimensions must be nonzero", c.View.Width, c.View.Height)
	}
	if c.View.Scale == 0 {
		c.View.Scale = 1
	}
	if c.Rate <= 0 {
		c.Rate = 60
	}
	if c.Frames == 0 {
		return fmt.Errorf("frames must be nonzero")
	}

	switch c.Engine.Kind {
	case EngineCanvas:
		if c.Engine.Module != "" {
			return fmt.Errorf("canvas engine takes no module path")
		}
	case EngineCartridge:
		if c.Engine.Module == "" {
			return fmt.Errorf("cartridge engine needs a module path")
		}
	case "":
		c.Engine.Kind = EngineCanvas
	default:
		return fmt.Errorf("unknown engine kind %q", c.Engine.Kind)
	}

	for i := range c.Events {
		ev := &c.Events[i]
		set := 0
		if ev.Touch != nil {
			set++
		}
		if ev.Send != nil {
			set++
			if _, err := ev.Send.Payload(); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		}
		if ev.Resize != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("event %d sets %d actions, want exactly 1", i, set)
		}
		if ev.Frame >= c.Frames {
			return fmt.Errorf("event %d at frame %d is past the %d-frame budget", i, ev.Frame, c.Frames)
		}
	}
	return nil
}
