package calibration

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// FitterConfig holds the Levenberg-Marquardt tuning parameters for
// GlobalFit.
type FitterConfig struct {
	MaxIterations int
	Tolerance     float64 // RMS residual stop threshold
	StepTolerance float64 // ||delta|| stop threshold
	InitialLambda float64
	LambdaFactor  float64
	MinLambda     float64
	MaxLambda     float64
	JacobianStep  float64
	ClampLo       float64 // only applied when pillar ValueType is ZeroRate
	ClampHi       float64
}

// DefaultFitterConfig matches the tuning used by reference curve
// engines for this style of solve: tight tolerance, conservative
// initial damping, decade-stepped lambda adaptation.
func DefaultFitterConfig() FitterConfig {
	return FitterConfig{
		MaxIterations: 100,
		Tolerance:     1e-10,
		StepTolerance: 1e-12,
		InitialLambda: 0.001,
		LambdaFactor:  10.0,
		MinLambda:     1e-10,
		MaxLambda:     1e10,
		JacobianStep:  1e-6,
		ClampLo:       -0.10,
		ClampHi:       0.30,
	}
}

// GlobalFit chooses pillar values at the fixed anchor tenors that
// minimize the sum of squared PV residuals across insts, via
// Levenberg-Marquardt with a numerical central-difference Jacobian.
func GlobalFit(refDate date.Date, insts []instruments.Instrument, tenors, initialValues []float64, method interpolation.Method, extrap curve.Extrapolation, vt valuetype.ValueType, dayCount daycount.Convention, cfg FitterConfig, strict bool) (*CalibrationResult, error) {
	start := time.Now()

	if len(tenors) != len(initialValues) {
		return nil, fmt.Errorf("calibration: tenors/initialValues length mismatch: %d vs %d", len(tenors), len(initialValues))
	}

	v := append([]float64(nil), initialValues...)
	lambda := cfg.InitialLambda
	n := len(v)
	m := len(insts)

	residualsAt := func(values []float64) ([]float64, error) {
		c, err := curve.New(refDate, tenors, values, method, vt, extrap)
		if err != nil {
			return nil, err
		}
		rc := curve.NewRateCurve(c, dayCount, 0)
		r := make([]float64, m)
		for i, inst := range insts {
			pv, err := inst.PV(rc)
			if err != nil {
				return nil, err
			}
			r[i] = pv
		}
		return r, nil
	}

	sumSquares := func(r []float64) float64 {
		s := 0.0
		for _, x := range r {
			s += x * x
		}
		return s
	}

	r, err := residualsAt(v)
	if err != nil {
		return nil, fmt.Errorf("calibration: global fit initial residuals: %w", err)
	}
	ssq := sumSquares(r)

	iterations := 0
	converged := false

	for iterations = 0; iterations < cfg.MaxIterations; iterations++ {
		if rms(r) < cfg.Tolerance {
			converged = true
			break
		}

		jac := mat.NewDense(m, n, nil)
		for j := 0; j < n; j++ {
			bumped := append([]float64(nil), v...)
			bumped[j] += cfg.JacobianStep
			rPlus, err := residualsAt(bumped)
			if err != nil {
				return nil, fmt.Errorf("calibration: jacobian column %d: %w", j, err)
			}
			bumped[j] = v[j] - cfg.JacobianStep
			rMinus, err := residualsAt(bumped)
			if err != nil {
				return nil, fmt.Errorf("calibration: jacobian column %d: %w", j, err)
			}
			for i := 0; i < m; i++ {
				jac.Set(i, j, (rPlus[i]-rMinus[i])/(2*cfg.JacobianStep))
			}
		}

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		for i := 0; i < n; i++ {
			jtj.Set(i, i, jtj.At(i, i)+lambda)
		}

		rVec := mat.NewVecDense(m, r)
		var jtr mat.VecDense
		jtr.MulVec(jac.T(), rVec)

		rhs := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			rhs.Set(i, 0, -jtr.AtVec(i))
		}

		var delta mat.Dense
		if err := delta.Solve(&jtj, rhs); err != nil {
			lambda = math.Min(lambda*cfg.LambdaFactor, cfg.MaxLambda)
			continue
		}

		deltaNorm := 0.0
		trial := append([]float64(nil), v...)
		for i := 0; i < n; i++ {
			d := delta.At(i, 0)
			deltaNorm += d * d
			trial[i] += d
			if vt.Kind == valuetype.ZeroRate {
				if trial[i] < cfg.ClampLo {
					trial[i] = cfg.ClampLo
				}
				if trial[i] > cfg.ClampHi {
					trial[i] = cfg.ClampHi
				}
			}
		}
		deltaNorm = math.Sqrt(deltaNorm)

		trialR, err := residualsAt(trial)
		if err != nil {
			lambda = math.Min(lambda*cfg.LambdaFactor, cfg.MaxLambda)
			continue
		}
		trialSSQ := sumSquares(trialR)

		if trialSSQ < ssq {
			v, r, ssq = trial, trialR, trialSSQ
			lambda = math.Max(lambda/cfg.LambdaFactor, cfg.MinLambda)
			if deltaNorm < cfg.StepTolerance {
				converged = rms(r) < cfg.Tolerance
				iterations++
				break
			}
		} else {
			lambda = math.Min(lambda*cfg.LambdaFactor, cfg.MaxLambda)
		}
	}
	if !converged {
		converged = rms(r) < cfg.Tolerance
	}

	finalCurve, err := curve.New(refDate, tenors, v, method, vt, extrap)
	if err != nil {
		return nil, fmt.Errorf("calibration: building final curve: %w", err)
	}
	rc := curve.NewRateCurve(finalCurve, dayCount, 0)

	report, err := buildRepricingReport(rc, insts)
	if err != nil {
		return nil, err
	}

	result := &CalibrationResult{
		ID:         uuid.NewString(),
		Curve:      finalCurve,
		Residuals:  r,
		RMSError:   report.RMSError,
		MaxError:   report.MaxError,
		Iterations: iterations,
		Converged:  converged,
		Report:     report,
		Duration:   time.Since(start),
	}

	if strict {
		if err := strictnessError(report); err != nil {
			return result, err
		}
	}
	return result, nil
}
