package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/eudm/internal/road"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/eudm.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// EUDMConfig is the JSON form of road.Params. Every field is optional;
// the Get* methods fall back to road.DefaultParams for anything unset, so
// partial configs are safe.
type EUDMConfig struct {
	// Search
	SearchDepth *int     `json:"search_depth,omitempty"`
	LayerT      *float64 `json:"layer_t,omitempty"`
	DT          *float64 `json:"dt,omitempty"`
	SamplesN    *int     `json:"samples_n,omitempty"`

	// Episode
	PhysicsDT        *float64 `json:"physics_dt,omitempty"`
	ReplanSteps      *int     `json:"replan_steps,omitempty"`
	MaxSteps         *int     `json:"max_steps,omitempty"`
	NCars            *int     `json:"n_cars,omitempty"`
	RNGSeed          *int64   `json:"rng_seed,omitempty"`
	BeliefUpdateRate *float64 `json:"belief_update_rate,omitempty"`

	// Debug and simulation switches
	RunFast             *bool `json:"run_fast,omitempty"`
	SuperDebug          *bool `json:"super_debug,omitempty"`
	DebugStepsBefore    *int  `json:"debug_steps_before,omitempty"`
	SeparationDebug     *bool `json:"separation_debug,omitempty"`
	DebugCarI           *int  `json:"debug_car_i,omitempty"`
	ObstaclesOnlyForEgo *bool `json:"obstacles_only_for_ego,omitempty"`
	OnlyCrashesWithEgo  *bool `json:"only_crashes_with_ego,omitempty"`

	// Cost
	EfficiencyWeight             *float64 `json:"efficiency_weight,omitempty"`
	EfficiencyLowSpeedCost       *float64 `json:"efficiency_low_speed_cost,omitempty"`
	EfficiencyHighSpeedCost      *float64 `json:"efficiency_high_speed_cost,omitempty"`
	EfficiencyHighSpeedTolerance *float64 `json:"efficiency_high_speed_tolerance,omitempty"`
	SafetyWeight                 *float64 `json:"safety_weight,omitempty"`
	SafetyMargin                 *float64 `json:"safety_margin,omitempty"`
	SmoothnessWeight             *float64 `json:"smoothness_weight,omitempty"`
	UncomfortableDecWeight       *float64 `json:"uncomfortable_dec_weight,omitempty"`
	UncomfortableDec             *float64 `json:"uncomfortable_dec,omitempty"`
	CurvatureChangeWeight        *float64 `json:"curvature_change_weight,omitempty"`
	LargeCurvatureChange         *float64 `json:"large_curvature_change,omitempty"`
	DiscountFactor               *float64 `json:"discount_factor,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyConfig returns an EUDMConfig with all fields set to nil.
func EmptyConfig() *EUDMConfig {
	return &EUDMConfig{}
}

// LoadConfig loads an EUDMConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadConfig(path string) (*EUDMConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *EUDMConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/ or cmd/eudm/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// FindDefaultConfig returns the first existing DefaultConfigPath candidate,
// or "" when there is none.
func FindDefaultConfig() string {
	for _, path := range []string{DefaultConfigPath, "../" + DefaultConfigPath, "../../" + DefaultConfigPath} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks that the effective values can drive a simulation.
func (c *EUDMConfig) Validate() error {
	for name, v := range map[string]float64{
		"layer_t":            c.GetLayerT(),
		"dt":                 c.GetDT(),
		"physics_dt":         c.GetPhysicsDT(),
		"belief_update_rate": c.GetBeliefUpdateRate(),
		"safety_margin":      c.GetSafetyMargin(),
		"discount_factor":    c.GetDiscountFactor(),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %f", name, v)
		}
	}

	if c.GetSearchDepth() < 1 {
		return fmt.Errorf("search_depth must be at least 1, got %d", c.GetSearchDepth())
	}
	if c.GetSamplesN() < 1 {
		return fmt.Errorf("samples_n must be at least 1, got %d", c.GetSamplesN())
	}
	if c.GetDT() <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.GetDT())
	}
	if c.GetLayerT() < c.GetDT() {
		return fmt.Errorf("layer_t (%f) must be at least dt (%f)", c.GetLayerT(), c.GetDT())
	}
	if c.GetPhysicsDT() <= 0 {
		return fmt.Errorf("physics_dt must be positive, got %f", c.GetPhysicsDT())
	}
	if c.GetReplanSteps() < 1 {
		return fmt.Errorf("replan_steps must be at least 1, got %d", c.GetReplanSteps())
	}
	if c.GetMaxSteps() < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", c.GetMaxSteps())
	}
	if c.GetNCars() < 0 {
		return fmt.Errorf("n_cars must be non-negative, got %d", c.GetNCars())
	}
	if r := c.GetBeliefUpdateRate(); r < 0 || r > 1 {
		return fmt.Errorf("belief_update_rate must be between 0 and 1, got %f", r)
	}
	if f := c.GetDiscountFactor(); f <= 0 || f > 1 {
		return fmt.Errorf("discount_factor must be in (0, 1], got %f", f)
	}
	if c.GetSafetyMargin() < 0 {
		return fmt.Errorf("safety_margin must be non-negative, got %f", c.GetSafetyMargin())
	}
	if c.GetDebugCarI() < -1 {
		return fmt.Errorf("debug_car_i must be -1 or a car index, got %d", c.GetDebugCarI())
	}
	return nil
}

// Params converts the config into the immutable parameter set shared by
// every road and search branch.
func (c *EUDMConfig) Params() *road.Params {
	return &road.Params{
		EUDM: road.EUDMParams{
			SearchDepth: c.GetSearchDepth(),
			LayerT:      c.GetLayerT(),
			DT:          c.GetDT(),
			SamplesN:    c.GetSamplesN(),
		},
		Cost: road.CostParams{
			EfficiencyWeight:             c.GetEfficiencyWeight(),
			EfficiencyLowSpeedCost:       c.GetEfficiencyLowSpeedCost(),
			EfficiencyHighSpeedCost:      c.GetEfficiencyHighSpeedCost(),
			EfficiencyHighSpeedTolerance: c.GetEfficiencyHighSpeedTolerance(),
			SafetyWeight:                 c.GetSafetyWeight(),
			SafetyMargin:                 c.GetSafetyMargin(),
			SmoothnessWeight:             c.GetSmoothnessWeight(),
			UncomfortableDecWeight:       c.GetUncomfortableDecWeight(),
			UncomfortableDec:             c.GetUncomfortableDec(),
			CurvatureChangeWeight:        c.GetCurvatureChangeWeight(),
			LargeCurvatureChange:         c.GetLargeCurvatureChange(),
			DiscountFactor:               c.GetDiscountFactor(),
		},
		PhysicsDT:           c.GetPhysicsDT(),
		ReplanSteps:         c.GetReplanSteps(),
		MaxSteps:            c.GetMaxSteps(),
		NCars:               c.GetNCars(),
		RNGSeed:             c.GetRNGSeed(),
		BeliefUpdateRate:    c.GetBeliefUpdateRate(),
		RunFast:             c.GetRunFast(),
		SuperDebug:          c.GetSuperDebug(),
		DebugStepsBefore:    c.GetDebugStepsBefore(),
		SeparationDebug:     c.GetSeparationDebug(),
		DebugCarI:           c.GetDebugCarI(),
		ObstaclesOnlyForEgo: c.GetObstaclesOnlyForEgo(),
		OnlyCrashesWithEgo:  c.GetOnlyCrashesWithEgo(),
	}
}
