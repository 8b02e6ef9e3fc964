// Package amortization builds level-payment mortgage amortization
// schedules with single-month-mortality prepayment, and discounts the
// resulting cash-flow schedule against a pkg/curve rate curve.
package amortization

import "math"

// PrepayInfo holds a pool's conditional prepayment assumption and the
// per-period single-month-mortality array derived from it.
type PrepayInfo struct {
	PrepayCPR float64   `json:"prepay_cpr"` // conditional prepayment rate, decimal (0.05 = 5% CPR)
	SMMArr    []float64 `json:"smm_arr,omitempty"`
}

// ensureSMMArrayType returns SMMArr, allocating it as a []float64 if
// it is currently nil.
func (p *PrepayInfo) ensureSMMArrayType() []float64 {
	if p.SMMArr == nil {
		p.SMMArr = []float64{}
	}
	return p.SMMArr
}

// ConvertCPRToSMM fills SMMArr with numMonths copies of the single
// month mortality implied by PrepayCPR: SMM = 1 - (1-CPR)^(1/12).
func (p *PrepayInfo) ConvertCPRToSMM(numMonths int) {
	p.ensureSMMArrayType()
	smm := 0.0
	if p.PrepayCPR != 0 {
		smm = 1 - math.Pow(1-p.PrepayCPR, 1.0/12.0)
	}
	p.SMMArr = make([]float64, numMonths)
	for i := range p.SMMArr {
		p.SMMArr[i] = smm
	}
}
