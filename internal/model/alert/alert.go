package alert

import "time"

// Type distinguishes the two dispatch buttons in the app.
type Type string

const (
	TypeSOS       Type = "sos"
	TypeEmergency Type = "emergency"
)

// Location is the alert's resolved position. Address falls back to the raw
// coordinate pair when reverse geocoding is unavailable.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Contact is the person notified by SMS.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// EmergencyAlert is written once on dispatch and never mutated. There is no
// automatic retry; at most one dispatch happens per user action.
type EmergencyAlert struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Location  Location  `json:"location"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Contact   Contact   `json:"contact"`
}

// DispatchRequest carries the five required dispatch fields. Latitude and
// longitude are pointers so that a missing field is distinguishable from 0.
type DispatchRequest struct {
	Type         Type     `json:"type,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Message      string   `json:"message"`
	ContactName  string   `json:"contactName"`
	ContactPhone string   `json:"contactPhone"`
}

// DispatchResult reports the outcome. Warnings carry non-fatal degradation
// (geocode, storage, SMS) without changing Success.
type DispatchResult struct {
	Success   bool           `json:"success"`
	Alert     EmergencyAlert `json:"alert"`
	Warnings  []string       `json:"warnings,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
