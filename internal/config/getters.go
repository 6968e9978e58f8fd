package config

import "github.com/banshee-data/eudm/internal/road"

// defaults backs every Get* method. It is never mutated.
var defaults = road.DefaultParams()

// GetSearchDepth returns the search_depth value or the default.
func (c *EUDMConfig) GetSearchDepth() int {
	if c.SearchDepth == nil {
		return defaults.EUDM.SearchDepth
	}
	return *c.SearchDepth
}

// GetLayerT returns the layer_t value or the default.
func (c *EUDMConfig) GetLayerT() float64 {
	if c.LayerT == nil {
		return defaults.EUDM.LayerT
	}
	return *c.LayerT
}

// GetDT returns the dt value or the default.
func (c *EUDMConfig) GetDT() float64 {
	if c.DT == nil {
		return defaults.EUDM.DT
	}
	return *c.DT
}

// GetSamplesN returns the samples_n value or the default.
func (c *EUDMConfig) GetSamplesN() int {
	if c.SamplesN == nil {
		return defaults.EUDM.SamplesN
	}
	return *c.SamplesN
}

// GetPhysicsDT returns the physics_dt value or the default.
func (c *EUDMConfig) GetPhysicsDT() float64 {
	if c.PhysicsDT == nil {
		return defaults.PhysicsDT
	}
	return *c.PhysicsDT
}

// GetReplanSteps returns the replan_steps value or the default.
func (c *EUDMConfig) GetReplanSteps() int {
	if c.ReplanSteps == nil {
		return defaults.ReplanSteps
	}
	return *c.ReplanSteps
}

// GetMaxSteps returns the max_steps value or the default.
func (c *EUDMConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return defaults.MaxSteps
	}
	return *c.MaxSteps
}

// GetNCars returns the n_cars value or the default.
func (c *EUDMConfig) GetNCars() int {
	if c.NCars == nil {
		return defaults.NCars
	}
	return *c.NCars
}

// GetRNGSeed returns the rng_seed value or the default.
func (c *EUDMConfig) GetRNGSeed() int64 {
	if c.RNGSeed == nil {
		return defaults.RNGSeed
	}
	return *c.RNGSeed
}

// GetBeliefUpdateRate returns the belief_update_rate value or the default.
func (c *EUDMConfig) GetBeliefUpdateRate() float64 {
	if c.BeliefUpdateRate == nil {
		return defaults.BeliefUpdateRate
	}
	return *c.BeliefUpdateRate
}

// GetRunFast returns the run_fast value or the default.
func (c *EUDMConfig) GetRunFast() bool {
	if c.RunFast == nil {
		return defaults.RunFast
	}
	return *c.RunFast
}

// GetSuperDebug returns the super_debug value or the default.
func (c *EUDMConfig) GetSuperDebug() bool {
	if c.SuperDebug == nil {
		return defaults.SuperDebug
	}
	return *c.SuperDebug
}

// GetDebugStepsBefore returns the debug_steps_before value or the default.
func (c *EUDMConfig) GetDebugStepsBefore() int {
	if c.DebugStepsBefore == nil {
		return defaults.DebugStepsBefore
	}
	return *c.DebugStepsBefore
}

// GetSeparationDebug returns the separation_debug value or the default.
func (c *EUDMConfig) GetSeparationDebug() bool {
	if c.SeparationDebug == nil {
		return defaults.SeparationDebug
	}
	return *c.SeparationDebug
}

// GetDebugCarI returns the debug_car_i value or the default.
func (c *EUDMConfig) GetDebugCarI() int {
	if c.DebugCarI == nil {
		return defaults.DebugCarI
	}
	return *c.DebugCarI
}

// GetObstaclesOnlyForEgo returns the obstacles_only_for_ego value or the default.
func (c *EUDMConfig) GetObstaclesOnlyForEgo() bool {
	if c.ObstaclesOnlyForEgo == nil {
		return defaults.ObstaclesOnlyForEgo
	}
	return *c.ObstaclesOnlyForEgo
}

// GetOnlyCrashesWithEgo returns the only_crashes_with_ego value or the default.
func (c *EUDMConfig) GetOnlyCrashesWithEgo() bool {
	if c.OnlyCrashesWithEgo == nil {
		return defaults.OnlyCrashesWithEgo
	}
	return *c.OnlyCrashesWithEgo
}

// GetEfficiencyWeight returns the efficiency_weight value or the default.
func (c *EUDMConfig) GetEfficiencyWeight() float64 {
	if c.EfficiencyWeight == nil {
		return defaults.Cost.EfficiencyWeight
	}
	return *c.EfficiencyWeight
}

// GetEfficiencyLowSpeedCost returns the efficiency_low_speed_cost value or the default.
func (c *EUDMConfig) GetEfficiencyLowSpeedCost() float64 {
	if c.EfficiencyLowSpeedCost == nil {
		return defaults.Cost.EfficiencyLowSpeedCost
	}
	return *c.EfficiencyLowSpeedCost
}

// GetEfficiencyHighSpeedCost returns the efficiency_high_speed_cost value or the default.
func (c *EUDMConfig) GetEfficiencyHighSpeedCost() float64 {
	if c.EfficiencyHighSpeedCost == nil {
		return defaults.Cost.EfficiencyHighSpeedCost
	}
	return *c.EfficiencyHighSpeedCost
}

// GetEfficiencyHighSpeedTolerance returns the efficiency_high_speed_tolerance value or the default.
func (c *EUDMConfig) GetEfficiencyHighSpeedTolerance() float64 {
	if c.EfficiencyHighSpeedTolerance == nil {
		return defaults.Cost.EfficiencyHighSpeedTolerance
	}
	return *c.EfficiencyHighSpeedTolerance
}

// GetSafetyWeight returns the safety_weight value or the default.
func (c *EUDMConfig) GetSafetyWeight() float64 {
	if c.SafetyWeight == nil {
		return defaults.Cost.SafetyWeight
	}
	return *c.SafetyWeight
}

// GetSafetyMargin returns the safety_margin value or the default.
func (c *EUDMConfig) GetSafetyMargin() float64 {
	if c.SafetyMargin == nil {
		return defaults.Cost.SafetyMargin
	}
	return *c.SafetyMargin
}

// GetSmoothnessWeight returns the smoothness_weight value or the default.
func (c *EUDMConfig) GetSmoothnessWeight() float64 {
	if c.SmoothnessWeight == nil {
		return defaults.Cost.SmoothnessWeight
	}
	return *c.SmoothnessWeight
}

// GetUncomfortableDecWeight returns the uncomfortable_dec_weight value or the default.
func (c *EUDMConfig) GetUncomfortableDecWeight() float64 {
	if c.UncomfortableDecWeight == nil {
		return defaults.Cost.UncomfortableDecWeight
	}
	return *c.UncomfortableDecWeight
}

// GetUncomfortableDec returns the uncomfortable_dec value or the default.
func (c *EUDMConfig) GetUncomfortableDec() float64 {
	if c.UncomfortableDec == nil {
		return defaults.Cost.UncomfortableDec
	}
	return *c.UncomfortableDec
}

// GetCurvatureChangeWeight returns the curvature_change_weight value or the default.
func (c *EUDMConfig) GetCurvatureChangeWeight() float64 {
	if c.CurvatureChangeWeight == nil {
		return defaults.Cost.CurvatureChangeWeight
	}
	return *c.CurvatureChangeWeight
}

// GetLargeCurvatureChange returns the large_curvature_change value or the default.
func (c *EUDMConfig) GetLargeCurvatureChange() float64 {
	if c.LargeCurvatureChange == nil {
		return defaults.Cost.LargeCurvatureChange
	}
	return *c.LargeCurvatureChange
}

// GetDiscountFactor returns the discount_factor value or the default.
func (c *EUDMConfig) GetDiscountFactor() float64 {
	if c.DiscountFactor == nil {
		return defaults.Cost.DiscountFactor
	}
	return *c.DiscountFactor
}
