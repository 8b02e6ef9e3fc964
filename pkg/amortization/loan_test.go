package amortization

import (
	"testing"
)

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := []LoanInfo{
		{ID: "", Wam: 360, Wac: 4.5, Face: 250000},
		{ID: "L1", Wam: 0, Wac: 4.5, Face: 250000},
		{ID: "L1", Wam: 600, Wac: 4.5, Face: 250000},
		{ID: "L1", Wam: 360, Wac: -1, Face: 250000},
		{ID: "L1", Wam: 360, Wac: 4.5, Face: 0},
		{ID: "L1", Wam: 360, Wac: 4.5, Face: 250000, PrepayCPR: 1.0},
	}
	for i, l := range cases {
		if err := l.Validate(); err == nil {
			t.Errorf("case %d: expected Validate to reject %+v", i, l)
		}
	}
}

func TestValidateAcceptsWellFormedLoan(t *testing.T) {
	l := LoanInfo{ID: "LOAN001", Wam: 360, Wac: 4.5, Face: 250000, PrepayCPR: 0.06}
	if err := l.Validate(); err != nil {
		t.Fatalf("expected well-formed loan to validate, got %v", err)
	}
}

func TestGetAmortizationTableFullyAmortizesWithNoPrepayment(t *testing.T) {
	l := LoanInfo{ID: "LOAN001", Wam: 360, Wac: 4.5, Face: 250000}
	table := l.GetAmortizationTable()

	if len(table.Period) != 360 {
		t.Fatalf("expected 360 periods, got %d", len(table.Period))
	}
	if !table.BegBal[0].Equal(cents(250000)) {
		t.Fatalf("expected first beginning balance to equal face, got %v", table.BegBal[0])
	}
	if !table.EndBal[359].IsZero() {
		t.Fatalf("expected loan to fully amortize to zero, got %v", table.EndBal[359])
	}
	for j := 1; j < len(table.Period); j++ {
		if !table.BegBal[j].Equal(table.EndBal[j-1]) {
			t.Fatalf("period %d: beginning balance %v does not match prior ending balance %v", j, table.BegBal[j], table.EndBal[j-1])
		}
	}
}

func TestGetAmortizationTablePrepaymentAcceleratesPayoff(t *testing.T) {
	base := LoanInfo{ID: "LOAN001", Wam: 360, Wac: 4.5, Face: 250000}
	prepaid := base
	prepaid.PrepayCPR = 0.10

	baseTable := base.GetAmortizationTable()
	prepaidTable := prepaid.GetAmortizationTable()

	if !prepaidTable.EndBal[120].LessThan(baseTable.EndBal[120]) {
		t.Fatalf("expected prepaying pool to amortize faster: base=%v prepaid=%v", baseTable.EndBal[120], prepaidTable.EndBal[120])
	}
}

func TestGetAmortizationTableZeroRateAmortizesLinearly(t *testing.T) {
	l := LoanInfo{ID: "LOAN001", Wam: 12, Wac: 0, Face: 1200}
	table := l.GetAmortizationTable()

	for j, principal := range table.Principal {
		if j == len(table.Principal)-1 {
			continue
		}
		if !principal.Equal(cents(100)) {
			t.Fatalf("period %d: expected level principal of 100 at zero rate, got %v", j, principal)
		}
	}
}
