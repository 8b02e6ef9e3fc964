// Package calibration builds term structures from market instrument
// sets via sequential bootstrap or a global Levenberg-Marquardt fit,
// and validates the result by repricing every input instrument.
package calibration

import (
	"fmt"
	"math"
	"time"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
)

// CalibrationResult owns the produced term structure, per-instrument
// residuals, and diagnostics. It borrows nothing from the instrument
// set used to build it.
type CalibrationResult struct {
	// ID identifies one calibration run; the bootstrap and global-fit
	// HTTP handlers return it as calibration_id.
	ID         string
	Curve      *curve.TermStructure
	Residuals  []float64 // model PV minus target, one per instrument, in input order
	RMSError   float64
	MaxError   float64
	Iterations int
	Converged  bool
	Report     RepricingReport
	Duration   time.Duration
}

// BootstrapFailed reports an implied discount factor that fell outside
// the admissible (0, 1] range during sequential bootstrap.
type BootstrapFailed struct {
	Instrument string
	DF         float64
}

func (e *BootstrapFailed) Error() string {
	return fmt.Sprintf("calibration: bootstrap failed at %q: implied discount factor %v outside (0, 1]", e.Instrument, e.DF)
}

// RepricingFailed is returned by strict-mode calibrators when the
// repricing report contains any failing instrument.
type RepricingFailed struct {
	MaxError    float64
	FailedCount int
	FailedIDs   []string
}

func (e *RepricingFailed) Error() string {
	return fmt.Sprintf("calibration: repricing failed for %d instrument(s), max error %v: %v", e.FailedCount, e.MaxError, e.FailedIDs)
}

func rms(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
