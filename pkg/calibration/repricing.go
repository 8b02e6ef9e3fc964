package calibration

import (
	"fmt"
	"strings"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
)

// RepricingCheck is the per-instrument outcome of validating a
// calibrated curve against its own inputs.
type RepricingCheck struct {
	Description string
	Kind        instruments.Kind
	Error       float64
	Tolerance   float64
	Passed      bool
}

func (r RepricingCheck) String() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s (%s): error=%.3e tol=%.3e", status, r.Description, r.Kind, r.Error, r.Tolerance)
}

// RepricingReport summarizes RepricingCheck results across every
// instrument used to calibrate a curve.
type RepricingReport struct {
	Checks      []RepricingCheck
	MaxError    float64
	RMSError    float64
	PassedCount int
	FailedCount int
}

func (r RepricingReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "repricing report: %d passed, %d failed, max=%.3e rms=%.3e\n",
		r.PassedCount, r.FailedCount, r.MaxError, r.RMSError)
	for _, c := range r.Checks {
		b.WriteString("  ")
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	return b.String()
}

// buildRepricingReport reprices every instrument on the finished curve
// and classifies each against its published tolerance bucket.
func buildRepricingReport(rc *curve.RateCurve, insts []instruments.Instrument) (RepricingReport, error) {
	checks := make([]RepricingCheck, len(insts))
	errs := make([]float64, len(insts))
	passed, failed := 0, 0

	for i, inst := range insts {
		pv, err := inst.PV(rc)
		if err != nil {
			return RepricingReport{}, fmt.Errorf("calibration: repricing %q: %w", inst.Description(), err)
		}
		e := pv
		if e < 0 {
			e = -e
		}
		tol := instruments.Tolerance(inst.Kind())
		p := e <= tol
		if p {
			passed++
		} else {
			failed++
		}
		checks[i] = RepricingCheck{
			Description: inst.Description(),
			Kind:        inst.Kind(),
			Error:       e,
			Tolerance:   tol,
			Passed:      p,
		}
		errs[i] = e
	}

	return RepricingReport{
		Checks:      checks,
		MaxError:    maxAbs(errs),
		RMSError:    rms(errs),
		PassedCount: passed,
		FailedCount: failed,
	}, nil
}

func strictnessError(report RepricingReport) error {
	if report.FailedCount == 0 {
		return nil
	}
	ids := make([]string, 0, report.FailedCount)
	for _, c := range report.Checks {
		if !c.Passed {
			ids = append(ids, c.Description)
		}
	}
	return &RepricingFailed{MaxError: report.MaxError, FailedCount: report.FailedCount, FailedIDs: ids}
}
