package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
)

func flatCurveInstruments() []instruments.Instrument {
	return []instruments.Instrument{
		instruments.Deposit{Desc: "3M deposit", Maturity: 0.25, Rate: 0.04},
		instruments.Deposit{Desc: "6M deposit", Maturity: 0.5, Rate: 0.04},
		instruments.Deposit{Desc: "1Y deposit", Maturity: 1.0, Rate: 0.04},
		instruments.IRS{
			Desc:             "2Y swap",
			PaymentTenors:    []float64{0.5, 1.0, 1.5, 2.0},
			AccrualFractions: []float64{0.5, 0.5, 0.5, 0.5},
			FixedRate:        0.04,
		},
		instruments.IRS{
			Desc:             "5Y swap",
			PaymentTenors:    []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0},
			AccrualFractions: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			FixedRate:        0.04,
		},
	}
}

func TestCalibrationServiceBootstrapReprices(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.New(dir)
	require.NoError(t, err)

	svc := NewCalibrationService(log)
	refDate := date.New(2024, 1, 2)

	result, err := svc.Bootstrap(refDate, flatCurveInstruments(), interpolation.LogLinear, curve.ExtrapolateFlat, daycount.Act360)
	require.NoError(t, err)
	assert.Equal(t, result.Report.FailedCount, 0)
	assert.Less(t, result.MaxError, 1e-6)
	assert.NotEmpty(t, result.ID)
}

func TestCalibrationServiceBootstrapStrictPassesOnRepricingInstruments(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.New(dir)
	require.NoError(t, err)

	svc := NewCalibrationService(log)
	refDate := date.New(2024, 1, 2)

	result, err := svc.BootstrapStrict(refDate, flatCurveInstruments(), interpolation.LogLinear, curve.ExtrapolateFlat, daycount.Act360)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Report.FailedCount)
}

func TestCalibrationServiceBootstrapStrictErrorsOnBootstrapFailure(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.New(dir)
	require.NoError(t, err)

	svc := NewCalibrationService(log)
	refDate := date.New(2024, 1, 2)

	insts := []instruments.Instrument{
		instruments.Deposit{Desc: "1Y deposit", Maturity: 1.0, Rate: -2.0}, // implies a negative DF
	}
	_, err = svc.BootstrapStrict(refDate, insts, interpolation.Linear, curve.ExtrapolateFlat, daycount.Act360)
	assert.Error(t, err)
}
