package instruments

import "fmt"

// DegenerateInstrument is returned when an instrument's ImpliedDF
// formula divides by a coefficient that happens to be zero (e.g. a
// zero-coupon bond quoted with zero face).
type DegenerateInstrument struct {
	Kind string
	Desc string
}

func (e *DegenerateInstrument) Error() string {
	return fmt.Sprintf("instruments: %s %q has a degenerate implied-DF coefficient", e.Kind, e.Desc)
}

func errDegenerate(kind, desc string) error {
	return &DegenerateInstrument{Kind: kind, Desc: desc}
}
