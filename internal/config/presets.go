package config

import (
	"fmt"
	"strings"
)

// Preset represents a named set of world knobs.
type Preset string

const (
	PresetNone    Preset = ""
	PresetCalm    Preset = "calm"
	PresetRolling Preset = "rolling"
	PresetStormy  Preset = "stormy"
	PresetFrozen  Preset = "frozen"
)

// Presets lists the named presets in display order.
var Presets = []Preset{PresetCalm, PresetRolling, PresetStormy, PresetFrozen}

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if p == PresetNone {
		return p, nil
	}
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return PresetNone, fmt.Errorf("unknown preset %q (want one of %v)", name, Presets)
}

// Describe returns a one-line summary of the preset.
func (p Preset) Describe() string {
	switch p {
	case PresetCalm:
		return "still water, light drag"
	case PresetRolling:
		return "slow swell, moderate friction"
	case PresetStormy:
		return "fast waves, slippery surface, hard bounces"
	case PresetFrozen:
		return "static surface, heavy friction"
	default:
		return "config values as loaded"
	}
}

// ApplyPreset modifies the config based on a preset.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetCalm:
		cfg.Surface.WaveSpeed = 0
		cfg.World.AirDrag = 0.2
		cfg.World.FrictionDrag = 1
	case PresetRolling:
		cfg.Surface.WaveSpeed = 1.5
		cfg.World.AirDrag = 0.1
		cfg.World.FrictionDrag = 2
	case PresetStormy:
		cfg.Surface.WaveSpeed = 6
		cfg.World.AirDrag = 0
		cfg.World.FrictionDrag = 0.5
		cfg.Ball.MaxPushBackForce = 20
	case PresetFrozen:
		cfg.Surface.WaveSpeed = 0
		cfg.World.AirDrag = 1
		cfg.World.FrictionDrag = 25
	}
}
