// Package lattice builds a Hull-White style binomial short-rate tree
// calibrated so that its implied zero-coupon bond prices reproduce a
// given zero-rate curve, and runs generic backward induction over it.
package lattice

import (
	"fmt"
	"math"
)

// ZeroRateFunc supplies the continuously-compounded zero rate to tenor
// t; term structures and rate curves satisfy this directly.
type ZeroRateFunc func(t float64) float64

// IllConditioned is returned when construction produces a negative
// branch probability or a non-finite node, or when a bond's cash-flow
// schedule cannot be reconciled with the tree's time grid.
type IllConditioned struct {
	Msg string
}

func (e *IllConditioned) Error() string { return fmt.Sprintf("lattice: ill-conditioned: %s", e.Msg) }

// Tree is a triangular binomial lattice of short rates: step i has
// i+1 nodes indexed j=0..i. ProbUp/ProbDown are constant across the
// tree (the Hull-White binomial reduction); the drift theta(i)
// absorbs the calibration to the input curve, applied per step so the
// tree's node rate is r(i,j) = theta(i) + alpha*j + beta*(i-j).
type Tree struct {
	Steps int
	T     float64 // horizon in years
	Dt    float64

	meanReversion float64
	volatility    float64
	alpha, beta   float64
	pUp, pDown    float64
	theta         []float64 // per-step drift, len Steps+1
}

// Build constructs a Steps-step binomial tree over horizon T years,
// calibrated to zeroRate, with mean reversion a and volatility sigma.
// If the chosen discretization would imply a negative branch
// probability, the caller should retry with more steps (smaller dt);
// Build reports this via IllConditioned rather than silently
// clamping, since a clamped probability would silently mis-price
// every node above it.
func Build(zeroRate ZeroRateFunc, T float64, steps int, meanReversion, volatility float64) (*Tree, error) {
	if T <= 0 {
		return nil, fmt.Errorf("lattice: horizon must be positive, got %v", T)
	}
	if steps < 1 {
		return nil, fmt.Errorf("lattice: steps must be at least 1, got %d", steps)
	}
	dt := T / float64(steps)

	// Binomial reduction of the Hull-White trinomial: the symmetric up
	// and down displacements carry equal and opposite jumps of size
	// sigma*sqrt(dt); mean reversion enters only through the branch
	// probabilities.
	displacement := volatility * math.Sqrt(dt)
	alpha := displacement
	beta := -displacement

	decay := math.Exp(-meanReversion * dt)
	pUp := (1 - decay) / 2
	if meanReversion == 0 {
		pUp = 0.5
	}
	pDown := 1 - pUp

	if pUp < 0 || pUp > 1 || pDown < 0 || pDown > 1 {
		return nil, &IllConditioned{Msg: fmt.Sprintf("branch probabilities out of [0,1]: pUp=%v pDown=%v; retry with more steps", pUp, pDown)}
	}

	tree := &Tree{
		Steps: steps, T: T, Dt: dt,
		meanReversion: meanReversion, volatility: volatility,
		alpha: alpha, beta: beta,
		pUp: pUp, pDown: pDown,
		theta: make([]float64, steps+1),
	}

	if err := tree.calibrateDrift(zeroRate); err != nil {
		return nil, err
	}
	return tree, nil
}

// calibrateDrift solves theta(i) step by step (forward induction) so
// that the tree's implied discount factor to time_at_step(i+1) matches
// exp(-zeroRate(t)*t) at every step: theta(i) is solved in closed form
// so that the Arrow-Debreu-weighted one-step discount factors from
// step i sum to the curve's discount factor at step i+1.
func (t *Tree) calibrateDrift(zeroRate ZeroRateFunc) error {
	// Arrow-Debreu prices: Q[i][j] is the value today of $1 paid at
	// node (i,j). Q[0][0] = 1.
	Q := [][]float64{{1.0}}

	for i := 0; i <= t.Steps; i++ {
		target := t.curveDF(zeroRate, t.TimeAtStep(i+1))
		sumQ := 0.0
		for _, q := range Q[i] {
			sumQ += q
		}
		if sumQ <= 0 || math.IsNaN(sumQ) || math.IsInf(sumQ, 0) {
			return &IllConditioned{Msg: fmt.Sprintf("non-finite Arrow-Debreu mass at step %d", i)}
		}
		// theta chosen so that sum_j Q[i][j]*exp(-(theta+alpha*j+beta*(i-j))*dt) == target
		weighted := 0.0
		for j := range Q[i] {
			weighted += Q[i][j] * math.Exp(-(t.alpha*float64(j)+t.beta*float64(i-j))*t.Dt)
		}
		theta := math.Log(weighted/target) / t.Dt
		if math.IsNaN(theta) || math.IsInf(theta, 0) {
			return &IllConditioned{Msg: fmt.Sprintf("non-finite drift at step %d", i)}
		}
		t.theta[i] = theta

		if i == t.Steps {
			break
		}
		next := make([]float64, i+2)
		for j := range Q[i] {
			r := t.Rate(i, j)
			df := math.Exp(-r * t.Dt)
			next[j+1] += Q[i][j] * df * t.pUp
			next[j] += Q[i][j] * df * t.pDown
		}
		Q = append(Q, next)
	}
	return nil
}

func (t *Tree) curveDF(zeroRate ZeroRateFunc, tenor float64) float64 {
	if tenor <= 0 {
		return 1
	}
	return math.Exp(-zeroRate(tenor) * tenor)
}

// Rate returns the short rate at node (i, j).
func (t *Tree) Rate(i, j int) float64 {
	return t.theta[i] + t.alpha*float64(j) + t.beta*float64(i-j)
}

// ProbUp and ProbDown are constant across the tree in this binomial
// reduction.
func (t *Tree) ProbUp(i, j int) float64   { return t.pUp }
func (t *Tree) ProbDown(i, j int) float64 { return t.pDown }

// DiscountFactor returns the per-node one-period discount factor used
// in backward induction, with an additive spread applied to the short
// rate (the mechanism the OAS solver uses to reprice a callable bond).
func (t *Tree) DiscountFactor(i, j int, spread float64) float64 {
	return math.Exp(-(t.Rate(i, j) + spread) * t.Dt)
}

// TimeAtStep returns i*Dt.
func (t *Tree) TimeAtStep(i int) float64 { return float64(i) * t.Dt }

// BackwardInduction sweeps from the terminal step to the root. At
// each node it calls update with the continuation value (computed from
// the two successor nodes' values and this node's discount factor at
// the given spread) so callers can layer in coupons and call
// provisions; update returns the value to store at (i, j). The return
// value is the root value V[0][0].
func (t *Tree) BackwardInduction(terminal []float64, spread float64, update func(i, j int, continuation float64) (float64, error)) (float64, error) {
	if len(terminal) != t.Steps+1 {
		return 0, fmt.Errorf("lattice: terminal value array length %d does not match step count %d", len(terminal), t.Steps+1)
	}
	values := append([]float64(nil), terminal...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &IllConditioned{Msg: "non-finite terminal node value"}
		}
	}

	for i := t.Steps - 1; i >= 0; i-- {
		next := make([]float64, i+1)
		for j := 0; j <= i; j++ {
			df := t.DiscountFactor(i, j, spread)
			continuation := df * (t.pUp*values[j+1] + t.pDown*values[j])
			v, err := update(i, j, continuation)
			if err != nil {
				return 0, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, &IllConditioned{Msg: fmt.Sprintf("non-finite node value at (%d,%d)", i, j)}
			}
			next[j] = v
		}
		values = next
	}
	return values[0], nil
}
