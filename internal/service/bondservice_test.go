package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/oas"
)

func TestBondServiceGetBondMetrics(t *testing.T) {
	oasLog, err := logger.New(t.TempDir())
	require.NoError(t, err)

	zapLog := zaptest.NewLogger(t)
	bondSvc := NewBondService(zapLog, NewOASService(oasLog))

	solver := oas.NewDefaultOASSolver()
	bond := callableBond()
	zero := flatZero(0.045)

	metrics, err := bondSvc.GetBondMetrics("TEST-CALL-5Y", bond, zero, solver, 98.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "TEST-CALL-5Y", metrics.Symbol)
	assert.Equal(t, 98.5, metrics.DirtyPrice)
	assert.GreaterOrEqual(t, metrics.EffectiveDuration, 0.0)
}
