// Package profile loads the host-side description of a board: where it is
// attached, how its firmware was built and how to flash it.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

// Profile is the YAML document read by the bluepill command.
type Profile struct {
	Device      string `yaml:"device"`
	Baud        int    `yaml:"baud"`
	ReadTimeout int    `yaml:"read_timeout_ms"`

	ClockHz     uint32 `yaml:"clock_hz"`
	SettleSpins uint32 `yaml:"settle_spins"`
	SettleUS    uint32 `yaml:"settle_us"` // overrides settle_spins when set

	// Flash is a shell-style command line; {mode} is replaced with the
	// firmware application name.
	Flash string `yaml:"flash"`
}

var (
	ErrNoDevice  = errors.New("profile: no serial device")
	ErrBadBaud   = errors.New("profile: baud rate out of range")
	ErrBadClock  = errors.New("profile: clock out of range")
	ErrBaudClock = errors.New("profile: baud rate too high for clock")
)

const (
	minBaud    = 1200
	maxBaud    = 4500000
	minClockHz = 4000000
	maxClockHz = 72000000

	maxReadTimeout = 10000
)

// Default returns the profile used when no file is given.
func Default() *Profile {
	p := &Profile{}
	applyDefaults(p)
	return p
}

// Load reads and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile, fills in missing values and validates it.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	applyDefaults(&p)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// applyDefaults fills in missing values with the Blue Pill defaults
func applyDefaults(p *Profile) {
	if p.Device == "" {
		p.Device = "/dev/ttyUSB0"
	}
	if p.Baud == 0 {
		p.Baud = 115200
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = 100
	}
	p.ReadTimeout = clamp(p.ReadTimeout, 1, maxReadTimeout)
	if p.ClockHz == 0 {
		p.ClockHz = 8000000
	}
	if p.Flash == "" {
		p.Flash = `tinygo flash -target bluepill -ldflags "-X main.mode={mode}" ./targets/bluepill`
	}
}

// Validate checks the profile for values the firmware cannot run with.
func (p *Profile) Validate() error {
	if p.Device == "" {
		return ErrNoDevice
	}
	if p.Baud < minBaud || p.Baud > maxBaud {
		return fmt.Errorf("%w: %d", ErrBadBaud, p.Baud)
	}
	if p.ClockHz < minClockHz || p.ClockHz > maxClockHz {
		return fmt.Errorf("%w: %d Hz", ErrBadClock, p.ClockHz)
	}
	// the USART needs at least 16 bus clocks per bit
	if p.ClockHz/uint32(p.Baud) < 16 {
		return fmt.Errorf("%w: %d baud at %d Hz", ErrBaudClock, p.Baud, p.ClockHz)
	}
	return nil
}

// Settle returns the calibrated clock settle delay, 0 when unset.
func (p *Profile) Settle() time.Duration {
	return time.Duration(p.SettleUS) * time.Microsecond
}

// Timeout returns the serial read timeout as a duration.
func (p *Profile) Timeout() time.Duration {
	return time.Duration(p.ReadTimeout) * time.Millisecond
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
