package models

import "time"

// AuditLog represents an audit trail event.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Actor      string                 `json:"actor" firestore:"actor"`   // user ID or "stripe-webhook"
	Action     string                 `json:"action" firestore:"action"` // e.g. "ADMIN_SET_STATUS", "SUBSCRIPTION_SYNC"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
