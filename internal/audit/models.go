// Package audit captures the security-relevant actions of the provider:
// logins, registrations, code issuance, token exchanges, and logouts.
package audit

import "time"

// Action identifies what happened. The set is closed; consumers route and
// alert on these values.
type Action string

const (
	ActionUserLogin      Action = "user.login"
	ActionUserRegistered Action = "user.register"
	ActionCodeIssued     Action = "code.issued"
	ActionTokenExchanged Action = "token.exchanged"
	ActionUserLogout     Action = "user.logout"
)

// Event is emitted from domain logic. Keep it transport-agnostic so sinks
// can fan out to Kafka, logs, or memory without caring who produced it.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Device    string    `json:"device,omitempty"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
