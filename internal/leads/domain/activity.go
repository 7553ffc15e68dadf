package domain

import "time"

// ActivityType classifies a recorded visitor action.
type ActivityType string

const (
	ActivityPageView    ActivityType = "page_view"
	ActivityDownload    ActivityType = "download"
	ActivityFormSubmit  ActivityType = "form_submit"
	ActivityEmailOpen   ActivityType = "email_open"
	ActivityEmailClick  ActivityType = "email_click"
	ActivityChatMessage ActivityType = "chat_message"
	ActivityBooking     ActivityType = "booking"
)

// Activity is a write-once record of something a visitor did.
// Points is nil when the activity carries no explicit score value.
type Activity struct {
	Type      ActivityType
	Timestamp time.Time
	Details   map[string]any
	Points    *int
}

// NewActivity creates an activity stamped with the current time.
func NewActivity(kind ActivityType, details map[string]any) Activity {
	return Activity{Type: kind, Timestamp: time.Now().UTC(), Details: details}
}

// WithPoints returns a copy of the activity carrying an explicit point value.
func (a Activity) WithPoints(points int) Activity {
	a.Points = &points
	return a
}

// PointValue returns the explicit points, or 0 when none were set.
func (a Activity) PointValue() int {
	if a.Points == nil {
		return 0
	}
	return *a.Points
}
