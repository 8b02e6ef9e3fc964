package service

import (
	"log/slog"

	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/pkg/calibration"
	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// CalibrationService runs sequential bootstrap or global-fit
// calibration and logs the resulting repricing report.
type CalibrationService struct {
	log *logger.Logger
}

func NewCalibrationService(log *logger.Logger) *CalibrationService {
	return &CalibrationService{log: log}
}

func (s *CalibrationService) logResult(op string, result *calibration.CalibrationResult, err error) {
	if err != nil {
		s.log.Error(op+" failed", slog.Any("error", err))
		return
	}
	s.log.Info(op+" completed",
		slog.String("calibration_id", result.ID),
		slog.Float64("rms_error", result.RMSError),
		slog.Float64("max_error", result.MaxError),
		slog.Int("iterations", result.Iterations),
		slog.Bool("converged", result.Converged),
		slog.Int("passed", result.Report.PassedCount),
		slog.Int("failed", result.Report.FailedCount),
		slog.Duration("build_duration", result.Duration),
	)
}

// Bootstrap runs the non-strict sequential bootstrap and logs the
// repricing report. A failing report is not an error here; callers
// inspect result.Report.
func (s *CalibrationService) Bootstrap(refDate date.Date, insts []instruments.Instrument, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*calibration.CalibrationResult, error) {
	result, err := calibration.Bootstrap(refDate, insts, method, extrap, dayCount)
	s.logResult("bootstrap", result, err)
	return result, err
}

// BootstrapStrict runs the sequential bootstrap in strict mode, where
// a non-empty repricing failure set is promoted to a hard error.
func (s *CalibrationService) BootstrapStrict(refDate date.Date, insts []instruments.Instrument, method interpolation.Method, extrap curve.Extrapolation, dayCount daycount.Convention) (*calibration.CalibrationResult, error) {
	result, err := calibration.BootstrapValidatedStrict(refDate, insts, method, extrap, dayCount)
	s.logResult("bootstrap_strict", result, err)
	return result, err
}

// GlobalFit runs the Levenberg-Marquardt global fit and logs the
// convergence outcome alongside the repricing report.
func (s *CalibrationService) GlobalFit(refDate date.Date, insts []instruments.Instrument, tenors, initialValues []float64, method interpolation.Method, extrap curve.Extrapolation, vt valuetype.ValueType, dayCount daycount.Convention, cfg calibration.FitterConfig, strict bool) (*calibration.CalibrationResult, error) {
	result, err := calibration.GlobalFit(refDate, insts, tenors, initialValues, method, extrap, vt, dayCount, cfg, strict)
	s.logResult("global_fit", result, err)
	return result, err
}
