package models

import "time"

const hoursPerYear = 24 * 365.25

// CurrentValue computes the straight-line depreciated value of the asset
// at time now, using the owning company's yearly percentage rate. The
// second return is false when cost, rate or the purchase date is missing.
// Value never goes below zero.
func (a Asset) CurrentValue(rate *float64, now time.Time) (float64, bool) {
	if a.Cost == nil || rate == nil || a.AddedOn == nil {
		return 0, false
	}
	years := now.Sub(*a.AddedOn).Hours() / hoursPerYear
	if years < 0 {
		years = 0
	}
	depreciation := *a.Cost * (*rate / 100) * years
	v := *a.Cost - depreciation
	if v < 0 {
		v = 0
	}
	return v, true
}
