// Package service wraps the pkg/curve, pkg/calibration, and pkg/oas
// façades with request-scoped logging: a thin layer that logs
// structured fields around a pure calculation and returns either a
// value or an error, never panicking on business logic.
package service

import (
	"log/slog"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// CurveService builds term structures and their rate/credit wrappers
// on behalf of the HTTP handlers, logging each build.
type CurveService struct {
	log *logger.Logger
}

// NewCurveService wires a CurveService to the shared dual-output logger.
func NewCurveService(log *logger.Logger) *CurveService {
	return &CurveService{log: log}
}

// BuildRequest describes a curve build at the façade boundary: plain
// tenors/values (already year fractions, already in the storage
// representation named by ValueType), not dates or instruments.
type BuildRequest struct {
	ReferenceDate date.Date
	Tenors        []float64
	Values        []float64
	Method        interpolation.Method
	ValueType     valuetype.ValueType
	Extrapolation curve.Extrapolation
}

// Build constructs a TermStructure from pillars, logging the pillar
// count and value type on success and the failure reason otherwise.
func (s *CurveService) Build(req BuildRequest) (*curve.TermStructure, error) {
	ts, err := curve.New(req.ReferenceDate, req.Tenors, req.Values, req.Method, req.ValueType, req.Extrapolation)
	if err != nil {
		s.log.Error("curve build failed",
			slog.String("value_type", req.ValueType.Kind.String()),
			slog.Int("pillar_count", len(req.Tenors)),
			slog.Any("error", err),
		)
		return nil, err
	}
	s.log.Info("curve built",
		slog.String("value_type", req.ValueType.Kind.String()),
		slog.Int("pillar_count", len(req.Tenors)),
		slog.String("method", req.Method.String()),
	)
	return ts, nil
}
