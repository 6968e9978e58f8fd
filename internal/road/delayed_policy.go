package road

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// DelayedPolicy is a scheduled switch: it behaves as From until Duration
// seconds have elapsed since it was first consulted, then as To.
type DelayedPolicy struct {
	From     SidePolicy
	To       SidePolicy
	Duration float64

	started  bool
	startT   float64
	switched bool
}

// NewDelayedPolicy schedules a transition from one plain policy to another.
func NewDelayedPolicy(from, to SidePolicy, duration float64) *DelayedPolicy {
	if IsDelayed(from) || IsDelayed(to) {
		panic("road: delayed policies cannot nest")
	}
	return &DelayedPolicy{From: from, To: to, Duration: duration}
}

func (p *DelayedPolicy) sidePolicy() {}

// PolicyID encodes both ends of the transition above DelayedPolicyIDBase.
func (p *DelayedPolicy) PolicyID() uint32 {
	return DelayedPolicyIDBase*(p.From.PolicyID()+1) + p.To.PolicyID()
}

func (p *DelayedPolicy) OperatingPolicy() SidePolicy { return p.To }

func (p *DelayedPolicy) ActivePolicy() SidePolicy {
	if p.switched {
		return p.To
	}
	return p.From
}

// Elapsed is the time since the transition first ran on r.
func (p *DelayedPolicy) Elapsed(r *Road) float64 {
	if !p.started {
		return 0
	}
	return r.T - p.startT
}

// advance records the start time and flips to To once Duration has passed.
// ChooseTargetLane is the first hook called every step, so it drives this.
func (p *DelayedPolicy) advance(r *Road) {
	if !p.started {
		p.started = true
		p.startT = r.T
	}
	if !p.switched && r.T-p.startT+switchEpsilon >= p.Duration {
		p.switched = true
	}
}

func (p *DelayedPolicy) ChooseTargetLane(r *Road, carI int) int {
	p.advance(r)
	return p.ActivePolicy().ChooseTargetLane(r, carI)
}

func (p *DelayedPolicy) ChooseFollowTime(r *Road, carI int) float64 {
	return p.ActivePolicy().ChooseFollowTime(r, carI)
}

func (p *DelayedPolicy) ChooseVel(r *Road, carI int) float64 {
	return p.ActivePolicy().ChooseVel(r, carI)
}

func (p *DelayedPolicy) ChooseTrajectory(r *Road, carI int, traj []r2.Vec) []r2.Vec {
	return p.ActivePolicy().ChooseTrajectory(r, carI, traj)
}

func (p *DelayedPolicy) Clone() SidePolicy {
	out := *p
	out.From = p.From.Clone()
	out.To = p.To.Clone()
	return &out
}

func (p *DelayedPolicy) String() string {
	return fmt.Sprintf("Delayed(%d: %v -> %v after %.2fs, switched %v)", p.PolicyID(), p.From, p.To, p.Duration, p.switched)
}
