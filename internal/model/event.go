package model

// School calendar event types.
const (
	EventTypeAcademic        = "academic"
	EventTypeExtracurricular = "extracurricular"
	EventTypeMeeting         = "meeting"
	EventTypeHoliday         = "holiday"
	EventTypeOther           = "other"
)

// EventTypes lists the accepted event types.
var EventTypes = []string{
	EventTypeAcademic,
	EventTypeExtracurricular,
	EventTypeMeeting,
	EventTypeHoliday,
	EventTypeOther,
}

// IsValidEventType reports whether t is a known event type.
func IsValidEventType(t string) bool {
	for _, et := range EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Date and time layouts used by events.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
