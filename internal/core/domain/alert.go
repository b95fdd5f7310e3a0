package domain

import "time"

// Alert types raised by the presence monitors.
const (
	AlertShiftOverdue  = "shift_overdue"
	AlertDoctorOffline = "doctor_offline"
)

// Alert is an operational alert shown until acknowledged.
type Alert struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	AlertType      string    `json:"alert_type" bson:"alert_type"`
	Message        string    `json:"message" bson:"message"`
	Priority       string    `json:"priority" bson:"priority"`
	RelatedUserID  string    `json:"related_user_id,omitempty" bson:"related_user_id,omitempty"`
	Acknowledged   bool      `json:"acknowledged" bson:"acknowledged"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	AcknowledgedAt time.Time `json:"acknowledged_at,omitempty" bson:"acknowledged_at,omitempty"`
}

// AuditLog is one entry of the append-only action trail.
type AuditLog struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Action    string    `json:"action" bson:"action"`
	Details   string    `json:"details" bson:"details"`
	IPAddress string    `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
