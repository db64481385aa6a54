// Package pricing computes itemized quotes for candidate stays.
package pricing

import (
	"time"

	"staybook/internal/models"
)

// Quote is the itemized price breakdown for a candidate stay. All values are
// integers in whole currency units.
type Quote struct {
	Nights            int   `json:"nights"`
	BasePricePerNight int64 `json:"base_price_per_night"`
	Subtotal          int64 `json:"subtotal"`
	CleaningFee       int64 `json:"cleaning_fee"`
	ServiceFee        int64 `json:"service_fee"`
	Taxes             int64 `json:"taxes"`
	Total             int64 `json:"total"`
}

// FeeSchedule carries caller-supplied fee constants. Nil cleaning or service
// fees fall back to derived defaults; nil taxes means zero.
type FeeSchedule struct {
	CleaningFee *int64
	ServiceFee  *int64
	Taxes       *int64
}

// FeesFromPricing lifts the optional fee fields off property pricing.
func FeesFromPricing(p models.PropertyPricing) FeeSchedule {
	return FeeSchedule{
		CleaningFee: p.CleaningFee,
		ServiceFee:  p.ServiceFee,
		Taxes:       p.Taxes,
	}
}

// Compute builds a quote for [checkIn, checkOut) at the given nightly rate.
// A stay of less than one night produces no quote rather than a zero total.
// Defaults when not supplied: cleaning fee is 10% of the nightly rate,
// service fee is 10% of the subtotal, both floored by integer division;
// taxes default to zero.
func Compute(checkIn, checkOut time.Time, pricePerNight int64, fees FeeSchedule) (*Quote, bool) {
	nights := models.DaysBetween(checkIn, checkOut)
	if nights < 1 {
		return nil, false
	}

	subtotal := int64(nights) * pricePerNight

	cleaning := pricePerNight / 10
	if fees.CleaningFee != nil {
		cleaning = *fees.CleaningFee
	}
	service := subtotal / 10
	if fees.ServiceFee != nil {
		service = *fees.ServiceFee
	}
	var taxes int64
	if fees.Taxes != nil {
		taxes = *fees.Taxes
	}

	return &Quote{
		Nights:            nights,
		BasePricePerNight: pricePerNight,
		Subtotal:          subtotal,
		CleaningFee:       cleaning,
		ServiceFee:        service,
		Taxes:             taxes,
		Total:             subtotal + cleaning + service + taxes,
	}, true
}
