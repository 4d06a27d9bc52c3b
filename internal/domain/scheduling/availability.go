package scheduling

import "time"

type AvailabilityInput struct {
	CompanyID uint
	StaffID   uint
	ServiceID uint
	Date      time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
