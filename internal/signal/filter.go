package signal

// Criteria holds the eligibility constraints applied to normalized
// contracts before selection.
type Criteria struct {
	MinDTE          int
	MaxDTE          int
	MinOpenInterest int64
}

// Eligible reports whether a contract passes every constraint: parsed
// expiration within the DTE window, a strike, enough open interest, a known
// delta and a positive mark. Contracts missing any of these are expected
// and dropped silently.
func (cr Criteria) Eligible(c Contract) bool {
	if c.Expiration == "" || c.Strike == nil {
		return false
	}
	if c.DTE == nil || *c.DTE < cr.MinDTE || *c.DTE > cr.MaxDTE {
		return false
	}
	if c.OpenInterest < cr.MinOpenInterest {
		return false
	}
	if c.Delta == nil {
		return false
	}
	if c.Mark == nil || *c.Mark <= 0 {
		return false
	}
	return true
}

// FilterEligible returns the contracts passing Eligible, preserving order.
// Filtering an already-filtered slice is a no-op.
func FilterEligible(contracts []Contract, cr Criteria) []Contract {
	var out []Contract
	for _, c := range contracts {
		if cr.Eligible(c) {
			out = append(out, c)
		}
	}
	return out
}
