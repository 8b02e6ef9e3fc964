package service

import (
	"log/slog"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/oas"
)

// OASService prices callable bonds and solves for OAS, logging each
// request's convergence outcome.
type OASService struct {
	log *logger.Logger
}

func NewOASService(log *logger.Logger) *OASService {
	return &OASService{log: log}
}

// Solve root-finds the OAS for bond at dirtyPrice and logs the outcome.
func (s *OASService) Solve(solver oas.Solver, bond oas.CallableBond, zeroRate oas.ZeroRateFunc, dirtyPrice, settlement float64) (oas.Result, error) {
	result, err := oas.Calculate(solver, bond, zeroRate, dirtyPrice, settlement)
	if err != nil {
		s.log.Error("oas solve failed", slog.String("bond", bond.Desc), slog.Any("error", err))
		return result, err
	}
	s.log.Info("oas solved",
		slog.String("oas_id", result.ID),
		slog.String("bond", bond.Desc),
		slog.Float64("oas_bps", result.OASBps),
		slog.Bool("converged", result.Converged),
	)
	return result, nil
}

// Price reprices bond at a supplied OAS, the inverse direction of Solve.
func (s *OASService) Price(bond oas.CallableBond, zeroRate oas.ZeroRateFunc, settlement, spread, volatility, meanReversion float64, treeSteps int) (float64, error) {
	price, err := oas.PriceWithOAS(bond, zeroRate, settlement, spread, volatility, meanReversion, treeSteps)
	if err != nil {
		s.log.Error("oas pricing failed", slog.String("bond", bond.Desc), slog.Any("error", err))
		return 0, err
	}
	return price, nil
}

// Sensitivities bundles the four finite-difference risk measures
// derived from the same lattice.
type Sensitivities struct {
	EffectiveDuration  float64
	EffectiveConvexity float64
	OptionValue        float64
	OASDuration        float64
}

// ComputeSensitivities evaluates effective duration/convexity, option
// value, and OAS duration at the given spread.
func (s *OASService) ComputeSensitivities(solver oas.Solver, bond oas.CallableBond, zeroRate oas.ZeroRateFunc, settlement, spread float64) (Sensitivities, error) {
	dur, err := oas.EffectiveDuration(solver, bond, zeroRate, settlement, spread)
	if err != nil {
		return Sensitivities{}, err
	}
	conv, err := oas.EffectiveConvexity(solver, bond, zeroRate, settlement, spread)
	if err != nil {
		return Sensitivities{}, err
	}
	opt, err := oas.OptionValue(solver, bond, zeroRate, settlement, spread)
	if err != nil {
		return Sensitivities{}, err
	}
	oasDur, err := oas.OASDuration(solver, bond, zeroRate, settlement, spread)
	if err != nil {
		return Sensitivities{}, err
	}
	s.log.Info("oas sensitivities computed",
		slog.String("bond", bond.Desc),
		slog.Float64("effective_duration", dur),
		slog.Float64("effective_convexity", conv),
		slog.Float64("option_value", opt),
	)
	return Sensitivities{EffectiveDuration: dur, EffectiveConvexity: conv, OptionValue: opt, OASDuration: oasDur}, nil
}
