package road

import (
	"math"

	"github.com/banshee-data/eudm/internal/monitoring"
)

// Update advances the road by one step of dt seconds.
//
// Order: per car policy, forward control and side control; then the
// kinematics of every moving car; traces; collisions; clock; cost.
// Crashed cars are frozen but still collide and block.
func (r *Road) Update(dt float64) {
	if len(r.Cars) == 0 {
		panic("road: Update on a road with no cars")
	}
	traj := r.trajBuf[:0]

	for carI := range r.Cars {
		if r.Cars[carI].Crashed {
			continue
		}

		policy := r.Cars[carI].SidePolicy
		lane := policy.ChooseTargetLane(r, carI)
		follow := policy.ChooseFollowTime(r, carI)
		vel := policy.ChooseVel(r, carI)
		traj = policy.ChooseTrajectory(r, carI, traj[:0])
		car := &r.Cars[carI]
		car.TargetLaneI = lane
		car.TargetFollowTime = follow
		car.TargetVel = vel

		accel := car.ForwardControl.ChooseAccel(r, carI)
		accel = math.Min(math.Max(accel, -BrakingAccel), car.PreferredVel)
		car.Vel = math.Min(math.Max(car.Vel+accel*dt, 0), car.PreferredVel)

		targetSteer := car.SideControl.ChooseSteer(r, carI, traj)
		steerAccel := (targetSteer - car.Steer) / dt
		steerAccel = math.Min(math.Max(steerAccel, -car.PreferredSteerAccel), car.PreferredSteerAccel)
		car.Steer = math.Min(math.Max(car.Steer+steerAccel*dt, -PriusMaxSteer), PriusMaxSteer)
	}

	for carI := range r.Cars {
		if !r.Cars[carI].Crashed {
			r.Cars[carI].Update(dt)
		}
	}

	if r.SuperDebug() {
		ego := &r.Cars[0]
		monitoring.Logf("%d: ego x: %.2f, y: %.2f, vel: %.10f", r.Timesteps, ego.X, ego.Y, ego.Vel)
	}

	r.recordTraces()
	r.resolveCollisions()

	r.T += dt
	r.Timesteps++

	r.updateCost(dt)

	r.trajBuf = traj
}

func (r *Road) resolveCollisions() {
	check := func(i1, i2 int) {
		if r.Cars[i1].Crashed && r.Cars[i2].Crashed {
			return
		}
		if !r.CollidesBetween(i1, i2) {
			return
		}
		if r.SuperDebug() {
			monitoring.Logf("%d: CRASH between:\n%v\n%v", r.Timesteps, r.Cars[i1], r.Cars[i2])
		}
		r.Cars[i1].Crashed = true
		r.Cars[i2].Crashed = true
	}

	if r.Params.OnlyCrashesWithEgo {
		for i2 := 1; i2 < len(r.Cars); i2++ {
			check(0, i2)
		}
		return
	}
	for i1 := 0; i1 < len(r.Cars); i1++ {
		for i2 := i1 + 1; i2 < len(r.Cars); i2++ {
			check(i1, i2)
		}
	}
}

// updateCost charges the ego's efficiency, safety, smoothness, comfort and
// curvature terms for the step just taken, then decays the discount.
func (r *Road) updateCost(dt float64) {
	cp := &r.Params.Cost
	car := &r.Cars[0]
	c := &r.Cost

	if car.Vel < car.PreferredVel {
		c.Efficiency += cp.EfficiencyWeight * cp.EfficiencyLowSpeedCost *
			(car.PreferredVel - car.Vel) * dt * c.Discount
	} else if car.Vel > car.PreferredVel+cp.EfficiencyHighSpeedTolerance {
		c.Efficiency += cp.EfficiencyWeight * cp.EfficiencyHighSpeedCost *
			(car.Vel - car.PreferredVel - cp.EfficiencyHighSpeedTolerance) * dt * c.Discount
	}
	c.Efficiency += cp.EfficiencyWeight * math.Abs(car.PreferredVel-car.Vel) * dt * c.Discount

	minDist, unsafe := r.MinUnsafeDist(0)
	if unsafe {
		c.Safety += cp.SafetyWeight * dt * c.Discount
		if r.Debug {
			monitoring.Logf("%d: UNSAFE: %.2f", r.Timesteps, minDist)
		}
	}
	r.EgoIsSafe = !unsafe

	policyID := car.ActivePolicyID()
	if policyID != r.lastEgo.PolicyID {
		c.Smoothness += cp.SmoothnessWeight * c.Discount
		if r.Debug {
			monitoring.Logf("%d: policy change from %d to %d (%v)", r.Timesteps, r.lastEgo.PolicyID, policyID, car.SidePolicy.OperatingPolicy())
		}
	}

	accel := (car.Vel - r.lastEgo.Vel) / dt
	if accel <= -cp.UncomfortableDec {
		c.UncomfortableDec += cp.UncomfortableDecWeight * dt * c.Discount
	}
	curvatureChange := math.Abs(car.Theta-r.lastEgo.Theta) / dt
	if curvatureChange >= cp.LargeCurvatureChange {
		c.CurvatureChange += cp.CurvatureChangeWeight * dt * c.Discount
	}

	r.lastEgo = r.snapshotEgo()
	c.UpdateDiscount(dt)
}
