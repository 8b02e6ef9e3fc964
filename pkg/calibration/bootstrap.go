package calibration

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// dummyHorizon is the far-future tenor used for the degenerate
// first-pillar partial curve: large enough that no realistic
// instrument set anchors beyond it, small enough to stay inside
// float64 precision when discounted.
const dummyHorizon = 100.0

// dfSolveTol is the |PV| threshold at which the per-pillar secant
// solve stops. The closed-form ImpliedDF seed is exact for instruments
// whose cash flows all land on solved pillars, so most pillars finish
// in one evaluation; the secant only earns its keep when intermediate
// cash flows fall inside the segment the candidate pillar closes.
const dfSolveTol = 1e-13

const maxDFSolveIterations = 50

// Bootstrap orders instruments by anchor tenor and solves pillars
// sequentially. Each pillar's discount factor is solved on a curve
// that already contains the candidate pillar, so instruments whose
// intermediate cash flows fall between solved pillars (semiannual
// swaps, FRAs with off-pillar start dates) reprice on the final curve
// too, not just on the flat-extrapolated partial. It never errors on a
// repricing miss; call BootstrapValidatedStrict for that.
func Bootstrap(refDate date.Date, insts []instruments.Instrument, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*CalibrationResult, error) {
	start := time.Now()

	ordered := append([]instruments.Instrument(nil), insts...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].AnchorTenor() < ordered[j].AnchorTenor() })

	tenors := []float64{0}
	values := []float64{1.0}

	for _, inst := range ordered {
		anchor := inst.AnchorTenor()

		baseT, baseV := tenors, values
		replaceLast := anchor > 0 && math.Abs(anchor-tenors[len(tenors)-1]) < 1e-10
		if replaceLast {
			baseT = tenors[:len(tenors)-1]
			baseV = values[:len(values)-1]
		}

		guess, err := seedDF(refDate, baseT, baseV, inst, method, dayCount)
		if err != nil {
			return nil, fmt.Errorf("calibration: bootstrap at %q: %w", inst.Description(), err)
		}
		// The secant solve clamps into [1e-9, 1], so an implied DF
		// outside (0, 1] is caught here on the closed-form seed.
		if guess <= 0 || guess > 1 {
			return nil, &BootstrapFailed{Instrument: inst.Description(), DF: guess}
		}

		df, err := solveAnchorDF(refDate, baseT, baseV, anchor, inst, method, dayCount, guess)
		if err != nil {
			return nil, fmt.Errorf("calibration: bootstrap at %q: %w", inst.Description(), err)
		}
		if df <= 0 || df > 1 {
			return nil, &BootstrapFailed{Instrument: inst.Description(), DF: df}
		}

		if replaceLast {
			values[len(values)-1] = df
		} else {
			tenors = append(tenors, anchor)
			values = append(values, df)
		}
	}

	finalCurve, err := curve.New(refDate, tenors, values, method, valuetype.NewDiscountFactor(), extrap)
	if err != nil {
		return nil, fmt.Errorf("calibration: building final curve: %w", err)
	}

	rc := curve.NewRateCurve(finalCurve, dayCount, 0)
	report, err := buildRepricingReport(rc, ordered)
	if err != nil {
		return nil, err
	}

	residuals := make([]float64, len(insts))
	for i, inst := range insts {
		pv, err := inst.PV(rc)
		if err != nil {
			return nil, err
		}
		residuals[i] = pv
	}

	return &CalibrationResult{
		ID:         uuid.NewString(),
		Curve:      finalCurve,
		Residuals:  residuals,
		RMSError:   report.RMSError,
		MaxError:   report.MaxError,
		Iterations: 1,
		Converged:  report.FailedCount == 0,
		Report:     report,
		Duration:   time.Since(start),
	}, nil
}

// BootstrapValidated is Bootstrap with the repricing report already
// attached to the result (Bootstrap always attaches it; this name
// documents the non-strict validation contract the sequential
// bootstrapper promises).
func BootstrapValidated(refDate date.Date, insts []instruments.Instrument, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*CalibrationResult, error) {
	return Bootstrap(refDate, insts, method, extrap, dayCount)
}

// BootstrapValidatedStrict converts a non-empty repricing failure set
// into a hard RepricingFailed error.
func BootstrapValidatedStrict(refDate date.Date, insts []instruments.Instrument, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*CalibrationResult, error) {
	result, err := Bootstrap(refDate, insts, method, extrap, dayCount)
	if err != nil {
		return nil, err
	}
	if err := strictnessError(result.Report); err != nil {
		return result, err
	}
	return result, nil
}

// seedDF produces the secant solve's starting point: the instrument's
// closed-form implied discount factor evaluated on the partial curve
// of already-solved pillars.
func seedDF(refDate date.Date, tenors, values []float64, inst instruments.Instrument, method interpolation.Method, dayCount daycount.Convention) (float64, error) {
	partial, err := buildPartialCurve(refDate, tenors, values, method)
	if err != nil {
		return 0, err
	}
	return inst.ImpliedDF(curve.NewRateCurve(partial, dayCount, 0), 0)
}

// solveAnchorDF root-finds the discount factor at anchor that zeroes
// the instrument's PV on the curve formed by the solved pillars plus
// the candidate (anchor, df) pillar itself. Secant iteration from the
// closed-form seed: PV is linear in df when no intermediate cash flow
// falls in the closing segment, so the common case converges in one
// step.
func solveAnchorDF(refDate date.Date, baseT, baseV []float64, anchor float64, inst instruments.Instrument, method interpolation.Method, dayCount daycount.Convention, guess float64) (float64, error) {
	pvAt := func(df float64) (float64, error) {
		extT := append(append([]float64(nil), baseT...), anchor)
		extV := append(append([]float64(nil), baseV...), df)
		c, err := curve.New(refDate, extT, extV, method, valuetype.NewDiscountFactor(), curve.ExtrapolateFlat)
		if err != nil {
			return 0, err
		}
		return inst.PV(curve.NewRateCurve(c, dayCount, 0))
	}

	clamp := func(df float64) float64 {
		if df < 1e-9 {
			return 1e-9
		}
		if df > 1 {
			return 1
		}
		return df
	}

	x0 := clamp(guess)
	f0, err := pvAt(x0)
	if err != nil {
		return 0, err
	}
	if math.Abs(f0) < dfSolveTol {
		return x0, nil
	}

	x1 := clamp(x0 * (1 - 1e-4))
	if x1 == x0 {
		x1 = clamp(x0 - 1e-6)
	}
	f1, err := pvAt(x1)
	if err != nil {
		return 0, err
	}

	for iter := 0; iter < maxDFSolveIterations; iter++ {
		if math.Abs(f1) < dfSolveTol {
			return x1, nil
		}
		if f1 == f0 {
			break
		}
		next := clamp(x1 - f1*(x1-x0)/(f1-f0))
		if next == x1 {
			break
		}
		x0, f0 = x1, f1
		x1 = next
		if f1, err = pvAt(x1); err != nil {
			return 0, err
		}
	}
	return x1, nil
}

// buildPartialCurve constructs the working curve used while the
// bootstrap is still short of two solved pillars. A single-pillar
// curve has no well-defined interpolator, so a far-future dummy pillar
// is appended under a flat-forward assumption derived from the one
// known point; it is discarded once a second real pillar exists.
func buildPartialCurve(refDate date.Date, tenors, values []float64, method interpolation.Method) (*curve.TermStructure, error) {
	if len(tenors) >= 2 {
		return curve.New(refDate, tenors, values, method, valuetype.NewDiscountFactor(), curve.ExtrapolateFlat)
	}

	lastT, lastDF := tenors[len(tenors)-1], values[len(values)-1]
	flatRate := 0.0
	if lastT > 0 {
		flatRate = -math.Log(lastDF) / lastT
	}
	dummyDF := math.Exp(-flatRate * dummyHorizon)

	extT := append(append([]float64(nil), tenors...), dummyHorizon)
	extV := append(append([]float64(nil), values...), dummyDF)
	return curve.New(refDate, extT, extV, method, valuetype.NewDiscountFactor(), curve.ExtrapolateFlat)
}
