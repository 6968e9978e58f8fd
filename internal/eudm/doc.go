// Package eudm implements the DCP-tree policy-switch search.
//
// The search forward-simulates a RoadSet of belief samples for a fixed
// number of layers and decides whether, and to which policy, the ego
// should switch after the first layer. Every branch runs on its own clone
// of the ensemble, so a search never mutates its input.
//
// The search is synchronous and deterministic: the same RoadSet, Params
// and candidate list always give the same decision. Randomness lives only
// in ChoosePolicy, which draws the samples.
package eudm
