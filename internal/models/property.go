package models

import "fmt"

// PropertyPricing holds the pricing constants for a property as returned by
// the booking store. Monetary values are integers in whole currency units.
// Nil fee fields mean "not supplied"; the pricing calculator derives defaults.
type PropertyPricing struct {
	PropertyID    string `json:"property_id"`
	PricePerNight int64  `json:"price_per_night"`
	CleaningFee   *int64 `json:"cleaning_fee,omitempty"`
	ServiceFee    *int64 `json:"service_fee,omitempty"`
	Taxes         *int64 `json:"taxes,omitempty"`
	MaxGuests     int    `json:"max_guests"`
}

// BookingRequest is the payload handed off to the booking store when a
// complete, valid selection is confirmed. Dates are YYYY-MM-DD strings.
type BookingRequest struct {
	PropertyID      string `json:"propertyId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Validate checks the request is complete enough to submit.
func (r *BookingRequest) Validate() error {
	if r.PropertyID == "" {
		return fmt.Errorf("propertyId is required")
	}
	if r.CheckInDate == "" || r.CheckOutDate == "" {
		return fmt.Errorf("check-in and check-out dates are required")
	}
	if r.NumberOfGuests < 1 {
		return fmt.Errorf("numberOfGuests must be at least 1")
	}
	return nil
}
