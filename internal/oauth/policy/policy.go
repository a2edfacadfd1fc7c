// Package policy holds the fixed protocol constants. These are design
// decisions, not configuration: changing one changes the security posture of
// every deployment, so they are compiled in.
package policy

import "time"

const (
	// CodeTTL bounds how long an unredeemed authorization code stays valid.
	CodeTTL = 10 * time.Minute

	// SessionTTL bounds a browser session between logins.
	SessionTTL = 15 * time.Minute

	// AccessTokenTTL and IDTokenTTL match the expires_in reported to clients.
	AccessTokenTTL = time.Hour
	IDTokenTTL     = time.Hour

	// RefreshTokenTTL matches the refresh_token cookie Max-Age.
	RefreshTokenTTL = 24 * time.Hour
)

const (
	SessionCookie = "session_id"
	RefreshCookie = "refresh_token"

	// RefreshCookiePath scopes the refresh cookie to the token endpoint so
	// the browser never attaches it elsewhere.
	RefreshCookiePath = "/token"
)
