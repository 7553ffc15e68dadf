package service

import "portfolio_leads_backend/platform/apperr"

// BookingType is a consultation a visitor can book. Value is the price in
// GBP and doubles as the conversion value.
type BookingType struct {
	ID          string
	Title       string
	Duration    string
	Minutes     int
	Price       string
	Value       float64
	Description string
}

var bookingTypes = []BookingType{
	{
		ID:          "discovery-call",
		Title:       "Discovery Call",
		Duration:    "30 minutes",
		Minutes:     30,
		Price:       "Free",
		Value:       0,
		Description: "Initial consultation to understand your needs and explore how AI can transform your financial services.",
	},
	{
		ID:          "technical-consultation",
		Title:       "Technical Deep Dive",
		Duration:    "60 minutes",
		Minutes:     60,
		Price:       "£300",
		Value:       300,
		Description: "Detailed technical consultation covering implementation strategies, architecture, and roadmap planning.",
	},
	{
		ID:          "strategy-session",
		Title:       "Strategy Session",
		Duration:    "90 minutes",
		Minutes:     90,
		Price:       "£500",
		Value:       500,
		Description: "Comprehensive strategy session including market analysis, competitive positioning, and transformation roadmap.",
	},
}

// BookingTypes returns the bookable consultations in display order.
func BookingTypes() []BookingType {
	out := make([]BookingType, len(bookingTypes))
	copy(out, bookingTypes)
	return out
}

// LookupBookingType finds a consultation by id.
func LookupBookingType(id string) (BookingType, error) {
	for _, b := range bookingTypes {
		if b.ID == id {
			return b, nil
		}
	}
	return BookingType{}, apperr.NotFound("consultation type not found")
}
