// Package newton holds the fixed-iteration Newton solvers used by the projection.
//
// Both solvers always run the requested number of steps and return whatever
// estimate results. There is no convergence check and no error path; this
// matches the reference projection, whose outputs depend on the exact
// iteration count.
package newton

// Func evaluates f(t) and f'(t).
type Func func(t float64) (f, df float64)

// Func2 evaluates a 2D function (f, g) at (x, y) together with its Jacobian.
type Func2 func(x, y float64) (f, g, dfdx, dfdy, dgdx, dgdy float64)

// Solve runs iterations Newton steps for f(t) = 0 starting at t.
func Solve(fn Func, t float64, iterations int) float64 {
	for i := 0; i < iterations; i++ {
		f, df := fn(t)
		t -= f / df
	}

	return t
}

// Solve2 runs iterations Newton steps for (f, g) = (0, 0) starting at (x, y).
func Solve2(fn Func2, x, y float64, iterations int) (float64, float64) {
	for i := 0; i < iterations; i++ {
		f, g, dfdx, dfdy, dgdx, dgdy := fn(x, y)

		det := 1.0 / (dfdx*dgdy - dfdy*dgdx)

		x -= det * (dgdy*f - dfdy*g)
		y -= det * (-dgdx*f + dfdx*g)
	}

	return x, y
}
