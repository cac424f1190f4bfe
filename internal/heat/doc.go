// Package heat solves the one-dimensional heat equation u_t = alpha*u_xx on a
// rod with fixed boundary temperatures using the explicit FTCS scheme.
//
//   - [ComputeSteps]: uniform grid spacing dx and time step dt
//   - [CheckStability]: diffusion number r = alpha*dt/dx^2 and the r <= 1/2 test
//   - [Engine]: double-buffered time stepping with snapshot delivery
//   - [Observer]: receives a private copy of the field at each snapshot
//
// # Example
//
//	cfg := heat.Config{Length: 10, Duration: 100, Points: 100, Steps: 2000, Alpha: 0.01}
//	e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(plotter))
//	if err != nil {
//		return err
//	}
//	err = e.Run()
//
// # Stability
//
// An unstable configuration is reported once through the logger before the
// first step and the run proceeds anyway. The engine does not check the field
// for NaN or Inf while stepping.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Run independent engines on separate
// goroutines, as the sweep package does.
package heat
