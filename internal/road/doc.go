// Package road is the roadway simulation engine used by the planner.
//
// Responsibilities: time-stepped multi-agent kinematics, broad-phase
// proximity queries on top of the narrow-phase geometry in package geom,
// collision resolution, discounted ego cost accumulation, the closed set
// of side policies and controllers, the belief over other cars' policies,
// and RoadSet ensembles of sampled roads.
// Key types: Road, Car, SidePolicy, DelayedPolicy, Belief, RoadSet.
//
// A Road, RoadSet or Car graph assumes a single goroutine at a time.
// Params is shared read-only between every clone.
package road
