package domain

// DayHours is the schedule of one weekday.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	IsOpen bool   `json:"isOpen"`
}

// OperatingHours is the fixed seven-day schedule of a garage.
type OperatingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// Weekdays lists the schedule keys in order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DefaultOpen reports the isOpen default for a weekday: open Monday to Friday.
func DefaultOpen(day string) bool {
	return day != "saturday" && day != "sunday"
}

// DefaultOperatingHours returns the schedule with every day defaulted.
func DefaultOperatingHours() OperatingHours {
	var h OperatingHours
	for _, day := range Weekdays {
		*h.Day(day) = DayHours{IsOpen: DefaultOpen(day)}
	}
	return h
}

// Day returns a pointer to the named day, or nil for an unknown name.
func (h *OperatingHours) Day(name string) *DayHours {
	switch name {
	case "monday":
		return &h.Monday
	case "tuesday":
		return &h.Tuesday
	case "wednesday":
		return &h.Wednesday
	case "thursday":
		return &h.Thursday
	case "friday":
		return &h.Friday
	case "saturday":
		return &h.Saturday
	case "sunday":
		return &h.Sunday
	}
	return nil
}
