package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical navigation defaults file.
const DefaultConfigPath = "config/nav.defaults.json"

// NavConfig is the root configuration for the navigation controller.
// Every field is optional; the Get* accessors fall back to the reference
// defaults so partial files are safe.
type NavConfig struct {
	// Thresholds (metres)
	CriticalDistance *float64 `json:"critical_distance,omitempty"`
	SafeDistance     *float64 `json:"safe_distance,omitempty"`
	MaxDistance      *float64 `json:"max_distance,omitempty"`

	// Scan segmentation (scan indices)
	MinArcWidth      *int `json:"min_arc_width,omitempty"`
	RearStart        *int `json:"rear_start,omitempty"`
	RearEnd          *int `json:"rear_end,omitempty"`
	ForwardTolerance *int `json:"forward_tolerance,omitempty"`

	// Lidar steering
	LidarForwardSpeed *float64 `json:"lidar_forward_speed,omitempty"`
	LidarTurnSpeed    *float64 `json:"lidar_turn_speed,omitempty"`
	LidarTurnRate     *float64 `json:"lidar_turn_rate,omitempty"`

	// Collision avoidance
	CruiseSpeed   *float64 `json:"cruise_speed,omitempty"`
	ReverseSpeed  *float64 `json:"reverse_speed,omitempty"`
	AvoidTurnRate *float64 `json:"avoid_turn_rate,omitempty"`
	SideTurnRate  *float64 `json:"side_turn_rate,omitempty"`
	SpinRate      *float64 `json:"spin_rate,omitempty"`

	// Loop
	TickRateHz *float64 `json:"tick_rate_hz,omitempty"`
	StatsEvery *string  `json:"stats_interval,omitempty"` // duration string like "30s"

	// SelectionSeed fixes the selector's coin flip. Zero means seed from time.
	SelectionSeed *uint64 `json:"selection_seed,omitempty"`
}

// EmptyNavConfig returns a NavConfig with all fields unset.
func EmptyNavConfig() *NavConfig {
	return &NavConfig{}
}

// LoadNavConfig loads a NavConfig from a JSON file.
// The path must have a .json extension and the file must be under 1MB.
func LoadNavConfig(path string) (*NavConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyNavConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *NavConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadNavConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *NavConfig) Validate() error {
	for name, v := range map[string]*float64{
		"critical_distance":   c.CriticalDistance,
		"safe_distance":       c.SafeDistance,
		"lidar_forward_speed": c.LidarForwardSpeed,
		"lidar_turn_speed":    c.LidarTurnSpeed,
		"lidar_turn_rate":     c.LidarTurnRate,
		"cruise_speed":        c.CruiseSpeed,
		"reverse_speed":       c.ReverseSpeed,
		"avoid_turn_rate":     c.AvoidTurnRate,
		"side_turn_rate":      c.SideTurnRate,
		"spin_rate":           c.SpinRate,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, *v)
		}
	}

	if c.MaxDistance != nil && *c.MaxDistance <= 0 {
		return fmt.Errorf("max_distance must be positive, got %f", *c.MaxDistance)
	}

	for name, v := range map[string]*int{
		"min_arc_width":     c.MinArcWidth,
		"rear_start":        c.RearStart,
		"rear_end":          c.RearEnd,
		"forward_tolerance": c.ForwardTolerance,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	if c.GetRearEnd() < c.GetRearStart() {
		return fmt.Errorf("rear_end (%d) must not be before rear_start (%d)", c.GetRearEnd(), c.GetRearStart())
	}

	if c.TickRateHz != nil && *c.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %f", *c.TickRateHz)
	}

	if c.StatsEvery != nil && *c.StatsEvery != "" {
		d, err := time.ParseDuration(*c.StatsEvery)
		if err != nil {
			return fmt.Errorf("invalid stats_interval '%s': %w", *c.StatsEvery, err)
		}
		if d <= 0 {
			return fmt.Errorf("stats_interval must be positive, got %s", d)
		}
	}

	return nil
}

func getFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func getInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// GetCriticalDistance returns the proximity distance that forces avoidance.
func (c *NavConfig) GetCriticalDistance() float64 { return getFloat(c.CriticalDistance, 0.3) }

// GetSafeDistance returns the minimum jump between adjacent scan samples
// that counts as an edge.
func (c *NavConfig) GetSafeDistance() float64 { return getFloat(c.SafeDistance, 2) }

// GetMaxDistance returns the scan clamp ceiling.
func (c *NavConfig) GetMaxDistance() float64 { return getFloat(c.MaxDistance, 20) }

// GetMinArcWidth returns the narrowest arc, in scan indices, that is kept.
func (c *NavConfig) GetMinArcWidth() int { return getInt(c.MinArcWidth, 5) }

// GetRearStart returns the first index of the ignored rear sector.
func (c *NavConfig) GetRearStart() int { return getInt(c.RearStart, 100) }

// GetRearEnd returns the index just past the ignored rear sector.
func (c *NavConfig) GetRearEnd() int { return getInt(c.RearEnd, 200) }

// GetForwardTolerance returns how many indices either side of 0 count as
// straight ahead.
func (c *NavConfig) GetForwardTolerance() int { return getInt(c.ForwardTolerance, 2) }

func (c *NavConfig) GetLidarForwardSpeed() float64 { return getFloat(c.LidarForwardSpeed, 1.0) }
func (c *NavConfig) GetLidarTurnSpeed() float64    { return getFloat(c.LidarTurnSpeed, 0.5) }
func (c *NavConfig) GetLidarTurnRate() float64     { return getFloat(c.LidarTurnRate, 0.8) }
func (c *NavConfig) GetCruiseSpeed() float64       { return getFloat(c.CruiseSpeed, 0.8) }
func (c *NavConfig) GetReverseSpeed() float64      { return getFloat(c.ReverseSpeed, 0.05) }
func (c *NavConfig) GetAvoidTurnRate() float64     { return getFloat(c.AvoidTurnRate, 0.5) }
func (c *NavConfig) GetSideTurnRate() float64      { return getFloat(c.SideTurnRate, 0.4) }
func (c *NavConfig) GetSpinRate() float64          { return getFloat(c.SpinRate, 0.6) }

// GetTickRateHz returns the control loop frequency.
func (c *NavConfig) GetTickRateHz() float64 { return getFloat(c.TickRateHz, 10) }

// GetTickInterval converts the tick rate into a period.
func (c *NavConfig) GetTickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.GetTickRateHz())
}

// GetStatsInterval parses and returns the transport statistics log interval.
func (c *NavConfig) GetStatsInterval() time.Duration {
	if c.StatsEvery == nil || *c.StatsEvery == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(*c.StatsEvery)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetSelectionSeed returns the configured selector seed, or zero.
func (c *NavConfig) GetSelectionSeed() uint64 {
	if c.SelectionSeed == nil {
		return 0
	}
	return *c.SelectionSeed
}
