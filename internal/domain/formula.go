package domain

// Formula is a named dough composition: a flour blend and salt level that
// can be reused instead of passing every adjustment by hand.
type Formula struct {
	ID          string
	Name        string
	Description string
	FlourMix    FlourMix
	Salt        float64
	Tags        []string
}

// Adjustments returns the formula as engine adjustments.
func (f *Formula) Adjustments() Adjustments {
	mix := f.FlourMix
	return Adjustments{FlourMix: &mix, SaltPercentage: f.Salt}
}
