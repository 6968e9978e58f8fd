package road

// testParams returns defaults with traces and debug output off.
func testParams() *Params {
	p := DefaultParams()
	p.RunFast = true
	return p
}

// placeCar appends a lane-keeping car at x in laneI moving at vel and
// returns its index.
func placeCar(r *Road, x float64, laneI int, vel float64) int {
	car := NewCar(len(r.Cars), laneI)
	car.X = x
	car.Vel = vel
	car.PreferredVel = vel
	car.TargetVel = vel
	r.Cars = append(r.Cars, car)
	return car.CarI
}
