// Command convexcore hosts the curve, calibration, and OAS façades
// behind a thin Gin HTTP surface: a small set of JSON handlers, a
// dual-output logger, and a worker-pool-bounded goroutine fan-out for
// batch requests. The analytics packages under pkg/ carry all of the
// pricing logic; this binary only translates DTOs.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jiangshenghai57/convexcore/internal/config"
	"github.com/jiangshenghai57/convexcore/internal/logger"
	"github.com/jiangshenghai57/convexcore/internal/service"
	"github.com/jiangshenghai57/convexcore/pkg/amortization"
	"github.com/jiangshenghai57/convexcore/pkg/calibration"
	"github.com/jiangshenghai57/convexcore/pkg/curve"
	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/daycount"
	"github.com/jiangshenghai57/convexcore/pkg/instruments"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/oas"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

type server struct {
	cfg         config.Config
	curves      *service.CurveService
	calibration *service.CalibrationService
	oasSvc      *service.OASService
	bonds       *service.BondService
	workerPool  chan struct{}
}

func newServer() (*server, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	log, err := logger.New(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("opening logger: %w", err)
	}

	zapLog, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("opening zap logger: %w", err)
	}

	oasSvc := service.NewOASService(log)
	return &server{
		cfg:         cfg,
		curves:      service.NewCurveService(log),
		calibration: service.NewCalibrationService(log),
		oasSvc:      oasSvc,
		bonds:       service.NewBondService(zapLog, oasSvc),
		workerPool:  make(chan struct{}, cfg.WorkerPoolSize),
	}, nil
}

func (s *server) router() *gin.Engine {
	logFile, err := os.OpenFile(s.cfg.LogDir+"/gin.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		mw := io.MultiWriter(logFile, os.Stdout)
		gin.DefaultWriter = mw
		gin.DefaultErrorWriter = mw
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/info", s.getServiceInfo)
	r.POST("/curve", s.postCurve)
	r.POST("/calibrate/bootstrap", s.postBootstrap)
	r.POST("/calibrate/globalfit", s.postGlobalFit)
	r.POST("/oas", s.postOAS)
	r.POST("/amortize", s.postAmortize)
	return r
}

func (s *server) getServiceInfo(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"service":     "convexcore",
		"description": "Fixed-income term structure, calibration, and OAS analytics engine",
		"endpoints": gin.H{
			"GET /info":                  "Service information",
			"POST /curve":                "Build a term structure and query it at a tenor",
			"POST /calibrate/bootstrap":  "Sequential-bootstrap a curve from an instrument set",
			"POST /calibrate/globalfit":  "Levenberg-Marquardt global-fit a curve from an instrument set",
			"POST /oas":                  "Price a callable bond and/or solve for its option-adjusted spread",
			"POST /amortize":             "Generate a mortgage pool amortization schedule",
		},
	})
}

// --- curve ---

type pillarDTO struct {
	Tenor float64 `json:"tenor"`
	Value float64 `json:"value"`
}

type curveRequest struct {
	ReferenceDate string      `json:"reference_date"` // ISO-8601
	Pillars       []pillarDTO `json:"pillars"`
	Method        string      `json:"method"`         // linear|loglinear|cubicspline|monotoneconvex|flatforward
	ValueType     string      `json:"value_type"`      // zerorate|discountfactor|instantaneousforward
	Extrapolation string      `json:"extrapolation"`  // none|flat|linear|flatforward
	QueryTenors   []float64   `json:"query_tenors"`
}

func parseMethod(s string) interpolation.Method {
	switch s {
	case "loglinear":
		return interpolation.LogLinear
	case "cubicspline":
		return interpolation.CubicSpline
	case "monotoneconvex":
		return interpolation.MonotoneConvex
	case "flatforward":
		return interpolation.FlatForward
	default:
		return interpolation.Linear
	}
}

func parseExtrapolation(s string) curve.Extrapolation {
	switch s {
	case "linear":
		return curve.ExtrapolateLinear
	case "flatforward":
		return curve.ExtrapolateFlatForward
	case "none":
		return curve.ExtrapolateNone
	default:
		return curve.ExtrapolateFlat
	}
}

func parseValueType(s string) valuetype.ValueType {
	switch s {
	case "zerorate":
		return valuetype.NewZeroRate(valuetype.Continuous, daycount.Act365F)
	case "instantaneousforward":
		return valuetype.NewInstantaneousForward()
	default:
		return valuetype.NewDiscountFactor()
	}
}

func (s *server) postCurve(c *gin.Context) {
	var req curveRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	refDate, err := date.Parse(req.ReferenceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenors := make([]float64, len(req.Pillars))
	values := make([]float64, len(req.Pillars))
	for i, p := range req.Pillars {
		tenors[i], values[i] = p.Tenor, p.Value
	}

	ts, err := s.curves.Build(service.BuildRequest{
		ReferenceDate: refDate,
		Tenors:        tenors,
		Values:        values,
		Method:        parseMethod(req.Method),
		ValueType:     parseValueType(req.ValueType),
		Extrapolation: parseExtrapolation(req.Extrapolation),
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	results := make(map[string]float64, len(req.QueryTenors))
	for _, t := range req.QueryTenors {
		results[fmt.Sprintf("%v", t)] = ts.ValueAt(t)
	}
	c.JSON(http.StatusOK, gin.H{"values": results})
}

// --- calibration ---

type instrumentDTO struct {
	Type             string    `json:"type"` // deposit|fra|ois|irs|zerocouponbond|couponbond
	Description      string    `json:"description"`
	Maturity         float64   `json:"maturity"`
	Rate             float64   `json:"rate"`
	T1               float64   `json:"t1"`
	T2               float64   `json:"t2"`
	Strike           float64   `json:"strike"`
	PaymentTenors    []float64 `json:"payment_tenors"`
	AccrualFractions []float64 `json:"accrual_fractions"`
	Face             float64   `json:"face"`
	DirtyPrice       float64   `json:"dirty_price"`
	CashFlowTenors   []float64 `json:"cash_flow_tenors"`
	CashFlowAmounts  []float64 `json:"cash_flow_amounts"`
}

func (d instrumentDTO) toInstrument() (instruments.Instrument, error) {
	switch d.Type {
	case "deposit":
		return instruments.Deposit{Desc: d.Description, Maturity: d.Maturity, Rate: d.Rate}, nil
	case "fra":
		return instruments.FRA{Desc: d.Description, T1: d.T1, T2: d.T2, Strike: d.Strike}, nil
	case "ois":
		return instruments.OIS{Desc: d.Description, Maturity: d.Maturity, Rate: d.Rate}, nil
	case "irs":
		return instruments.IRS{Desc: d.Description, PaymentTenors: d.PaymentTenors, AccrualFractions: d.AccrualFractions, FixedRate: d.Rate}, nil
	case "zerocouponbond":
		return instruments.ZeroCouponBond{Desc: d.Description, Maturity: d.Maturity, Face: d.Face, DirtyPrice: d.DirtyPrice}, nil
	case "couponbond":
		return instruments.CouponBond{Desc: d.Description, CashFlowTenors: d.CashFlowTenors, CashFlowAmounts: d.CashFlowAmounts, DirtyPrice: d.DirtyPrice}, nil
	default:
		return nil, fmt.Errorf("unknown instrument type %q", d.Type)
	}
}

type calibrationRequest struct {
	ReferenceDate string          `json:"reference_date"`
	Instruments   []instrumentDTO `json:"instruments"`
	Method        string          `json:"method"`
	Extrapolation string          `json:"extrapolation"`
	DayCount      string          `json:"day_count"`
	Strict        bool            `json:"strict"`
}

func parseDayCount(s string) daycount.Convention {
	switch s {
	case "act365f":
		return daycount.Act365F
	case "actactisda":
		return daycount.ActActISDA
	case "30360us":
		return daycount.Thirty360US
	default:
		return daycount.Act360
	}
}

func (req calibrationRequest) toInstruments() ([]instruments.Instrument, error) {
	insts := make([]instruments.Instrument, len(req.Instruments))
	for i, d := range req.Instruments {
		inst, err := d.toInstrument()
		if err != nil {
			return nil, err
		}
		insts[i] = inst
	}
	return insts, nil
}

func (s *server) postBootstrap(c *gin.Context) {
	var req calibrationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refDate, err := date.Parse(req.ReferenceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	insts, err := req.toInstruments()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method, extrap, dc := parseMethod(req.Method), parseExtrapolation(req.Extrapolation), parseDayCount(req.DayCount)

	var result, bootstrapErr = s.calibration.Bootstrap(refDate, insts, method, extrap, dc)
	if req.Strict {
		result, bootstrapErr = s.calibration.BootstrapStrict(refDate, insts, method, extrap, dc)
	}
	if bootstrapErr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": bootstrapErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"calibration_id": result.ID,
		"rms_error":      result.RMSError,
		"max_error":       result.MaxError,
		"converged":       result.Converged,
		"report":          result.Report.String(),
	})
}

func (s *server) postGlobalFit(c *gin.Context) {
	var req struct {
		calibrationRequest
		Tenors        []float64 `json:"tenors"`
		InitialValues []float64 `json:"initial_values"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refDate, err := date.Parse(req.ReferenceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	insts, err := req.toInstruments()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fitCfg := calibration.DefaultFitterConfig()
	if s.cfg.DefaultLMMaxIterations > 0 {
		fitCfg.MaxIterations = s.cfg.DefaultLMMaxIterations
	}
	if s.cfg.DefaultLMTolerance > 0 {
		fitCfg.Tolerance = s.cfg.DefaultLMTolerance
	}

	result, err := s.calibration.GlobalFit(
		refDate, insts, req.Tenors, req.InitialValues,
		parseMethod(req.Method), parseExtrapolation(req.Extrapolation),
		valuetype.NewDiscountFactor(), parseDayCount(req.DayCount),
		fitCfg, req.Strict,
	)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"calibration_id": result.ID,
		"rms_error":      result.RMSError,
		"max_error":      result.MaxError,
		"iterations":     result.Iterations,
		"converged":      result.Converged,
		"report":         result.Report.String(),
	})
}

// --- OAS ---

type callDateDTO struct {
	Tenor float64 `json:"tenor"`
	Price float64 `json:"price"`
}

type oasRequest struct {
	Desc          string        `json:"description"`
	Face          float64       `json:"face"`
	CouponTenors  []float64     `json:"coupon_tenors"`
	CouponAmounts []float64     `json:"coupon_amounts"`
	Maturity      float64       `json:"maturity"`
	CallSchedule  []callDateDTO `json:"call_schedule"`
	FlatZeroRate  float64       `json:"flat_zero_rate"`
	DirtyPrice    float64       `json:"dirty_price"`
	Settlement    float64       `json:"settlement"`
	Volatility    float64       `json:"volatility"`
	TreeSteps     int           `json:"tree_steps"`
}

func (req oasRequest) toBond() oas.CallableBond {
	calls := make([]oas.CallDate, len(req.CallSchedule))
	for i, cd := range req.CallSchedule {
		calls[i] = oas.CallDate{Tenor: cd.Tenor, Price: cd.Price, Type: oas.CallAmerican}
	}
	return oas.CallableBond{
		Desc:          req.Desc,
		Face:          req.Face,
		CouponTenors:  req.CouponTenors,
		CouponAmounts: req.CouponAmounts,
		Maturity:      req.Maturity,
		CallSchedule:  calls,
	}
}

func (s *server) postOAS(c *gin.Context) {
	var req oasRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	solver := oas.NewDefaultOASSolver()
	if s.cfg.DefaultTreeSteps > 0 {
		solver.TreeSteps = s.cfg.DefaultTreeSteps
	}
	if req.Volatility > 0 {
		solver.Volatility = req.Volatility
	}
	if req.TreeSteps > 0 {
		solver.TreeSteps = req.TreeSteps
	}

	zeroRate := func(float64) float64 { return req.FlatZeroRate }
	bond := req.toBond()

	metrics, err := s.bonds.GetBondMetrics(req.Desc, bond, zeroRate, solver, req.DirtyPrice, req.Settlement)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// --- amortization ---

type loanRequest struct {
	ID        string  `json:"id"`
	Wam       int64   `json:"wam"`
	Wac       float64 `json:"wac"`
	Face      float64 `json:"face"`
	PrepayCPR float64 `json:"prepay_cpr"`
}

// postAmortize fans loans out across the bounded worker pool, one
// goroutine per loan, and collects every result before responding.
func (s *server) postAmortize(c *gin.Context) {
	var loans []loanRequest
	if err := c.BindJSON(&loans); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	type outcome struct {
		ID    string                          `json:"id"`
		Table *amortization.AmortizationTable `json:"amort_table,omitempty"`
		Error string                          `json:"error,omitempty"`
	}

	results := make([]outcome, len(loans))
	var wg sync.WaitGroup
	for i, loanReq := range loans {
		wg.Add(1)
		go func(i int, loanReq loanRequest) {
			defer wg.Done()
			s.workerPool <- struct{}{}
			defer func() { <-s.workerPool }()

			loan := amortization.LoanInfo{ID: loanReq.ID, Wam: loanReq.Wam, Wac: loanReq.Wac, Face: loanReq.Face, PrepayCPR: loanReq.PrepayCPR}
			if err := loan.Validate(); err != nil {
				results[i] = outcome{ID: loanReq.ID, Error: err.Error()}
				return
			}
			table := loan.GetAmortizationTable()
			results[i] = outcome{ID: loanReq.ID, Table: &table}
		}(i, loanReq)
	}
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func main() {
	srv, err := newServer()
	if err != nil {
		log.Fatalf("convexcore: failed to start: %v", err)
	}
	router := srv.router()
	if err := router.Run(srv.cfg.BindAddr); err != nil {
		log.Fatalf("convexcore: server exited: %v", err)
	}
}
