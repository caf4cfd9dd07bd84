package service

import (
	"fmt"
	"time"
)

type ToggleMode string

const (
	// ToggleAtomic flips the stored flag addressed by task id in one write
	ToggleAtomic ToggleMode = "atomic"
	// ToggleLegacy removes the exact supplied task value and adds a flipped copy
	ToggleLegacy ToggleMode = "legacy"
)

func ParseToggleMode(s string) (ToggleMode, error) {
	switch ToggleMode(s) {
	case ToggleAtomic, "":
		return ToggleAtomic, nil
	case ToggleLegacy:
		return ToggleLegacy, nil
	}
	return "", fmt.Errorf("unknown task toggle mode %q", s)
}

// Config tunes the group and task services.
type Config struct {
	ToggleMode ToggleMode
	// Location is applied to every timestamp handed back to callers
	Location *time.Location
	Now      func() time.Time
}

func (c Config) withDefaults() Config {
	if c.ToggleMode == "" {
		c.ToggleMode = ToggleAtomic
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func (c Config) now() time.Time {
	return c.Now().Truncate(time.Millisecond)
}
