package nav

import (
	"time"

	"github.com/banshee-data/gapnav/internal/config"
)

// Params are the resolved navigation tunables. Distances are metres, widths
// and tolerances are scan indices, speeds are m/s and turn rates rad/s
// (positive turns left).
type Params struct {
	CriticalDistance float64
	SafeDistance     float64
	MaxDistance      float64

	MinArcWidth      int
	RearStart        int
	RearEnd          int
	ForwardTolerance int

	LidarForwardSpeed float64
	LidarTurnSpeed    float64
	LidarTurnRate     float64

	CruiseSpeed   float64
	ReverseSpeed  float64
	AvoidTurnRate float64
	SideTurnRate  float64
	SpinRate      float64

	TickInterval time.Duration

	// Seed fixes the selector's coin flip when non-zero.
	Seed uint64
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return ParamsFromConfig(config.EmptyNavConfig())
}

// ParamsFromConfig resolves a loaded NavConfig, applying defaults for any
// field the file leaves out.
func ParamsFromConfig(cfg *config.NavConfig) Params {
	return Params{
		CriticalDistance:  cfg.GetCriticalDistance(),
		SafeDistance:      cfg.GetSafeDistance(),
		MaxDistance:       cfg.GetMaxDistance(),
		MinArcWidth:       cfg.GetMinArcWidth(),
		RearStart:         cfg.GetRearStart(),
		RearEnd:           cfg.GetRearEnd(),
		ForwardTolerance:  cfg.GetForwardTolerance(),
		LidarForwardSpeed: cfg.GetLidarForwardSpeed(),
		LidarTurnSpeed:    cfg.GetLidarTurnSpeed(),
		LidarTurnRate:     cfg.GetLidarTurnRate(),
		CruiseSpeed:       cfg.GetCruiseSpeed(),
		ReverseSpeed:      cfg.GetReverseSpeed(),
		AvoidTurnRate:     cfg.GetAvoidTurnRate(),
		SideTurnRate:      cfg.GetSideTurnRate(),
		SpinRate:          cfg.GetSpinRate(),
		TickInterval:      cfg.GetTickInterval(),
		Seed:              cfg.GetSelectionSeed(),
	}
}
