package calibration

import (
	"fmt"

	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
)

// ProjectionIndex names one projection curve in a multi-curve
// environment (OIS discounting plus one curve per Ibor-style tenor),
// bootstrapped from its own Instruments.
type ProjectionIndex struct {
	Name        string
	Instruments []instruments.Instrument
}

// Environment is the output of BuildEnvironment: a discount curve plus
// one projection curve per index, each with its own calibration result.
type Environment struct {
	Discount    *CalibrationResult
	Projections map[string]*CalibrationResult
}

// BuildEnvironment implements the multi-curve build order: bootstrap
// the discount curve from overnight-indexed instruments first, then
// bootstrap each projection index. Each projection curve is
// bootstrapped from its own instruments alone: the discount curve does
// not enter their PVs, and no basis adjustment iteration between
// curves is performed.
func BuildEnvironment(refDate date.Date, discountInstruments []instruments.Instrument, indices []ProjectionIndex, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*Environment, error) {
	discountResult, err := Bootstrap(refDate, discountInstruments, method, extrap, dayCount)
	if err != nil {
		return nil, fmt.Errorf("calibration: building discount curve: %w", err)
	}

	projections := make(map[string]*CalibrationResult, len(indices))
	for _, idx := range indices {
		result, err := Bootstrap(refDate, idx.Instruments, method, extrap, dayCount)
		if err != nil {
			return nil, fmt.Errorf("calibration: building projection curve %q: %w", idx.Name, err)
		}
		projections[idx.Name] = result
	}

	return &Environment{Discount: discountResult, Projections: projections}, nil
}
