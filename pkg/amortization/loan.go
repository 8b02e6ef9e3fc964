package amortization

import (
	"fmt"

	financial "github.com/razorpay/go-financial"
	"github.com/razorpay/go-financial/enums/paymentperiod"
	"github.com/shopspring/decimal"
)

// LoanInfo is the basic description of a single mortgage loan: its
// weighted-average maturity and coupon, its face amount, and its
// prepayment assumption.
type LoanInfo struct {
	ID        string  `json:"id"`
	Wam       int64   `json:"wam"` // weighted average maturity, months
	Wac       float64 `json:"wac"` // weighted average coupon, percent per annum (e.g. 4.5)
	Face      float64 `json:"face"`
	PrepayCPR float64 `json:"prepay_cpr"`
}

// AmortizationTable is a complete period-by-period amortization
// schedule. Monetary fields are decimal.Decimal, rounded to the cent,
// so downstream reporting never carries binary floating-point
// rounding artifacts into a dollar amount.
type AmortizationTable struct {
	Period       []int             `json:"period"`
	BegBal       []decimal.Decimal `json:"beg_bal"`
	Interest     []decimal.Decimal `json:"interest"`
	Principal    []decimal.Decimal `json:"principal"`
	SchedBal     []decimal.Decimal `json:"sched_bal"`
	PrepayAmount []decimal.Decimal `json:"prepay_amount"`
	EndBal       []decimal.Decimal `json:"end_bal"`
}

// Validate checks loan parameters against the bounds accepted on API
// submissions.
func (l LoanInfo) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("amortization: loan ID cannot be empty")
	}
	if l.Wam <= 0 || l.Wam > 480 {
		return fmt.Errorf("amortization: WAM must be between 1 and 480 months, got %d", l.Wam)
	}
	if l.Wac < 0 || l.Wac > 30 {
		return fmt.Errorf("amortization: WAC must be between 0 and 30 percent, got %v", l.Wac)
	}
	if l.Face <= 0 {
		return fmt.Errorf("amortization: face value must be positive, got %v", l.Face)
	}
	if l.PrepayCPR < 0 || l.PrepayCPR >= 1 {
		return fmt.Errorf("amortization: CPR must be between 0 and 1, got %v", l.PrepayCPR)
	}
	return nil
}

// levelPayment returns the fixed monthly level payment for a fully
// amortizing loan, via go-financial's Pmt (a Go port of
// numpy-financial) called on scalar decimal rate, present value and
// future value.
func levelPayment(face, monthlyRate float64, numPeriods int64) float64 {
	if monthlyRate == 0 {
		return face / float64(numPeriods)
	}
	pmt := financial.Pmt(decimal.NewFromFloat(monthlyRate), numPeriods, decimal.NewFromFloat(-face), decimal.Zero, paymentperiod.ENDING)
	result, _ := pmt.Float64()
	return result
}

func cents(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// GetAmortizationTable builds a level-payment amortization schedule
// for l, applying the single-month-mortality prepayment implied by
// l.PrepayCPR to the scheduled balance at each period.
func (l LoanInfo) GetAmortizationTable() AmortizationTable {
	numPeriods := int(l.Wam)

	prepay := PrepayInfo{PrepayCPR: l.PrepayCPR}
	prepay.ConvertCPRToSMM(numPeriods)

	monthlyRate := l.Wac / 12.0 / 100.0
	payment := levelPayment(l.Face, monthlyRate, l.Wam)

	table := AmortizationTable{
		Period:       make([]int, numPeriods),
		BegBal:       make([]decimal.Decimal, numPeriods),
		Interest:     make([]decimal.Decimal, numPeriods),
		Principal:    make([]decimal.Decimal, numPeriods),
		SchedBal:     make([]decimal.Decimal, numPeriods),
		PrepayAmount: make([]decimal.Decimal, numPeriods),
		EndBal:       make([]decimal.Decimal, numPeriods),
	}

	balance := l.Face
	for j := 0; j < numPeriods; j++ {
		remaining := numPeriods - j
		table.Period[j] = j + 1
		table.BegBal[j] = cents(balance)

		interestPayment := balance * monthlyRate
		table.Interest[j] = cents(interestPayment)

		var principalPayment float64
		if remaining == 1 {
			principalPayment = balance
		} else {
			principalPayment = payment - interestPayment
		}
		table.Principal[j] = cents(principalPayment)

		schedBal := balance - principalPayment
		table.SchedBal[j] = cents(schedBal)

		prepayAmount := prepay.SMMArr[j] * schedBal
		table.PrepayAmount[j] = cents(prepayAmount)

		balance = schedBal - prepayAmount
		if balance < 0 {
			balance = 0
		}
		table.EndBal[j] = cents(balance)
	}

	table.TrueUpBalances()
	return table
}

// TrueUpBalances forces the final period's ending balance to zero,
// absorbing any cent-level drift accumulated from per-period rounding
// into the last principal payment.
func (a *AmortizationTable) TrueUpBalances() {
	n := len(a.Principal)
	if n == 0 {
		return
	}
	last := n - 1
	leftover := a.BegBal[last].Sub(a.Principal[last]).Sub(a.PrepayAmount[last])
	if leftover.Equal(a.EndBal[last]) {
		return
	}
	adjustment := leftover.Sub(a.EndBal[last])
	a.Principal[last] = a.Principal[last].Add(adjustment)
	a.EndBal[last] = decimal.Zero
}
