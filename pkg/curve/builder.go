package curve

import (
	"fmt"

	"github.com/jiangshenghai57/convexcore/pkg/date"
	"github.com/jiangshenghai57/convexcore/pkg/interpolation"
	"github.com/jiangshenghai57/convexcore/pkg/valuetype"
)

// DiscountCurveBuilder accumulates pillars and settings fluently before
// producing an immutable TermStructure, mirroring the way the sequential
// bootstrapper and global fitter both stage pillars before finalizing.
type DiscountCurveBuilder struct {
	refDate   date.Date
	tenors    []float64
	values    []float64
	method    interpolation.Method
	valueType valuetype.ValueType
	extrap    Extrapolation
	err       error
}

// NewDiscountCurveBuilder starts a builder for a DiscountFactor curve
// anchored at refDate, defaulting to log-linear interpolation (the
// conventional choice for DF curves) and flat extrapolation.
func NewDiscountCurveBuilder(refDate date.Date) *DiscountCurveBuilder {
	return &DiscountCurveBuilder{
		refDate:   refDate,
		method:    interpolation.LogLinear,
		valueType: valuetype.NewDiscountFactor(),
		extrap:    ExtrapolateFlat,
	}
}

// WithPillar stages a (tenor, value) pair without validating it; the
// staged pillars are validated when Build is called.
func (b *DiscountCurveBuilder) WithPillar(tenor, value float64) *DiscountCurveBuilder {
	b.tenors = append(b.tenors, tenor)
	b.values = append(b.values, value)
	return b
}

func (b *DiscountCurveBuilder) WithMethod(m interpolation.Method) *DiscountCurveBuilder {
	b.method = m
	return b
}

func (b *DiscountCurveBuilder) WithValueType(vt valuetype.ValueType) *DiscountCurveBuilder {
	b.valueType = vt
	return b
}

func (b *DiscountCurveBuilder) WithExtrapolation(e Extrapolation) *DiscountCurveBuilder {
	b.extrap = e
	return b
}

// WithOriginPillar stages the conventional (0, 1.0) discount-factor
// pillar, a no-op guard when the caller already added one.
func (b *DiscountCurveBuilder) WithOriginPillar() *DiscountCurveBuilder {
	for _, t := range b.tenors {
		if t == 0 {
			return b
		}
	}
	if b.valueType.Kind == valuetype.DiscountFactor {
		return b.WithPillar(0, 1.0)
	}
	return b
}

// Build validates accumulated state (no duplicate tenors, strictly
// increasing once sorted) and constructs the TermStructure.
func (b *DiscountCurveBuilder) Build() (*TermStructure, error) {
	if b.err != nil {
		return nil, b.err
	}
	tenors, values, err := sortedUnique(b.tenors, b.values)
	if err != nil {
		return nil, fmt.Errorf("curve builder: %w", err)
	}
	return New(b.refDate, tenors, values, b.method, b.valueType, b.extrap)
}
