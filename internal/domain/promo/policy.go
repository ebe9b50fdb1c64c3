package promo

import "time"

// Plan is the price and access duration applied to one charge. The same
// plan selection covers first purchases, manual renewals and automatic
// renewals, so every charge at a given instant sees the same terms.
type Plan struct {
	PriceKopecks int64
	Currency     string
	Duration     time.Duration
	Promotional  bool
}

// Policy selects between the standard and promotional plan based on the
// window state at charge time.
type Policy struct {
	standard Plan
	promo    Plan
}

func NewPolicy(standard, promo Plan) *Policy {
	return &Policy{standard: standard, promo: promo}
}

// PlanAt returns the plan in force at the given instant. A nil window means
// no promotion was ever configured.
func (p *Policy) PlanAt(w *Window, now time.Time) Plan {
	if w != nil && w.OpenAt(now) {
		return p.promo
	}
	return p.standard
}

func (p *Policy) Standard() Plan {
	return p.standard
}

func (p *Policy) Promo() Plan {
	return p.promo
}
