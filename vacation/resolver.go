package vacation

import "github.com/shopspring/decimal"

// ResolvePolicy merges the organization policy with an optional employee
// override. The override wins field by field; a missing override or field
// inherits the organization value. There is no organization-wide carryover
// amount, so carryover is zero unless the override sets it.
func ResolvePolicy(org OrganizationPolicy, override *AllowanceOverride) EffectivePolicy {
	effective := EffectivePolicy{
		AnnualDays:            org.DefaultAnnualDays,
		CarryoverDaysRaw:      decimal.Zero,
		AllowCarryover:        org.AllowCarryover,
		MaxCarryoverDays:      org.MaxCarryoverDays,
		CarryoverExpiryMonths: org.CarryoverExpiryMonths,
	}
	if override == nil {
		return effective
	}
	if override.CustomAnnualDays != nil {
		effective.AnnualDays = *override.CustomAnnualDays
	}
	if override.CustomCarryoverDays != nil {
		effective.CarryoverDaysRaw = *override.CustomCarryoverDays
	}
	return effective
}
