package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

func TestCurveServiceBuildDiscountFactorCurve(t *testing.T) {
	log, err := logger.New(t.TempDir())
	require.NoError(t, err)
	svc := NewCurveService(log)

	req := BuildRequest{
		ReferenceDate: date.New(2024, 1, 2),
		Tenors:        []float64{0, 1, 2},
		Values:        []float64{1.0, 0.96, 0.92},
		Method:        interpolation.LogLinear,
		ValueType:     valuetype.NewDiscountFactor(),
		Extrapolation: curve.ExtrapolateFlat,
	}

	ts, err := svc.Build(req)
	require.NoError(t, err)
	assert.Equal(t, 0.96, ts.ValueAt(1))
}

func TestCurveServiceBuildRejectsInvalidPillars(t *testing.T) {
	log, err := logger.New(t.TempDir())
	require.NoError(t, err)
	svc := NewCurveService(log)

	req := BuildRequest{
		ReferenceDate: date.New(2024, 1, 2),
		Tenors:        []float64{1},
		Values:        []float64{0.96},
		Method:        interpolation.Linear,
		ValueType:     valuetype.NewDiscountFactor(),
		Extrapolation: curve.ExtrapolateFlat,
	}

	_, err = svc.Build(req)
	assert.Error(t, err)
}
