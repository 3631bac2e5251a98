package qsurv

import "strings"

// acceptKey is the all-zero syndrome bitstring.
func acceptKey(bits int) string { return strings.Repeat("0", bits) }

/*
EmptyResultError reports a rate request against an outcome table with zero
total shots. Callers that only need a number can use Rate, which recovers by
defining the rate as 0.
*/
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string { return "outcome table has zero shots" }

// AcceptanceRate returns the fraction of trials whose classical register read
// all zeros, i.e. whose syndrome indicated no detected error.
func AcceptanceRate(t OutcomeTable) (float64, error) {
	total := t.Total()
	if total == 0 {
		return 0, &EmptyResultError{}
	}
	return float64(t[acceptKey(syndromeBits)]) / float64(total), nil
}

// Rate is AcceptanceRate with the empty-table case recovered as 0.
func Rate(t OutcomeTable) float64 {
	r, err := AcceptanceRate(t)
	if err != nil {
		return 0
	}
	return r
}
