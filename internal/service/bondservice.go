package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jiangshenghai57/convexcore/pkg/oas"
)

// BondService computes headline risk metrics for a callable bond given
// a market dirty price and a curve: a thin facade over the math that
// logs each request with zap. There is no backing asset database here;
// every metric is derived on the spot from the OAS solver.
type BondService struct {
	log    *zap.Logger
	solver *OASService
}

// NewBondService wires a BondService to a zap logger and the shared
// OASService.
func NewBondService(log *zap.Logger, solver *OASService) *BondService {
	return &BondService{log: log, solver: solver}
}

// BondMetrics is the headline risk report for one bond, computed from
// the lattice-based OAS solver rather than a closed-form YTM/duration
// approximation.
type BondMetrics struct {
	Symbol             string
	DirtyPrice         float64
	OASBps             float64
	OASConverged       bool
	EffectiveDuration  float64
	EffectiveConvexity float64
	OptionValue        float64
}

// GetBondMetrics solves for OAS and its sensitivities and assembles a
// BondMetrics report, logging a debug line keyed by symbol.
func (s *BondService) GetBondMetrics(symbol string, bond oas.CallableBond, zeroRate oas.ZeroRateFunc, solverCfg oas.Solver, dirtyPrice, settlement float64) (*BondMetrics, error) {
	s.log.Debug("retrieving bond metrics", zap.String("symbol", symbol))

	result, err := s.solver.Solve(solverCfg, bond, zeroRate, dirtyPrice, settlement)
	if err != nil {
		s.log.Error("bond metrics failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("bondservice: solving OAS for %q: %w", symbol, err)
	}

	spread := result.OASBps / 10000
	sens, err := s.solver.ComputeSensitivities(solverCfg, bond, zeroRate, settlement, spread)
	if err != nil {
		s.log.Error("bond sensitivities failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("bondservice: sensitivities for %q: %w", symbol, err)
	}

	metrics := &BondMetrics{
		Symbol:             symbol,
		DirtyPrice:         dirtyPrice,
		OASBps:             result.OASBps,
		OASConverged:       result.Converged,
		EffectiveDuration:  sens.EffectiveDuration,
		EffectiveConvexity: sens.EffectiveConvexity,
		OptionValue:        sens.OptionValue,
	}

	s.log.Info("bond metrics computed",
		zap.String("symbol", symbol),
		zap.Float64("oas_bps", metrics.OASBps),
		zap.Float64("effective_duration", metrics.EffectiveDuration),
	)
	return metrics, nil
}
