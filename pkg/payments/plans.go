package payments

// Plan describes one purchasable tier. DurationDays of zero means no time
// limit; MaxUses of zero means no usage limit.
type Plan struct {
	Name         string
	MinAmount    int64
	DurationDays int
	MaxUses      int
}

// DefaultPlans is the production tier table, highest threshold first.
// An amount exactly equal to a threshold belongs to that tier.
func DefaultPlans() []Plan {
	return []Plan{
		{Name: "Gói Vĩnh Viễn", MinAmount: 4999000, DurationDays: 36500},
		{Name: "VIP 1 Năm", MinAmount: 199000, DurationDays: 365},
		{Name: "VIP 6 Tháng", MinAmount: 149000, DurationDays: 180},
		{Name: "VIP 1 Tháng", MinAmount: 39000, DurationDays: 30},
		{Name: "VIP 1 Tuần", MinAmount: 19000, DurationDays: 7},
		{Name: "Gói Lẻ", MinAmount: 5000, MaxUses: 10},
	}
}

// ClassifyAmount maps a paid amount to the first plan whose threshold it
// meets, walking the table in order. The second return is false when the
// amount is below every threshold.
func ClassifyAmount(amount int64, plans []Plan) (Plan, bool) {
	for _, plan := range plans {
		if amount >= plan.MinAmount {
			return plan, true
		}
	}
	return Plan{}, false
}
