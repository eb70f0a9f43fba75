package domain

// Channel identifies a transport location a bearer token may be presented
// through. Candidate discovery walks the channels in priority order:
// header first, then cookie, then session.
type Channel string

const (
	// HeaderChannel is a request-level bearer field, used by API-style calls.
	HeaderChannel Channel = "header"
	// CookieChannel is a long-lived client-side credential ("remember me").
	CookieChannel Channel = "cookie"
	// SessionChannel is a short-lived server-side stored credential.
	SessionChannel Channel = "session"
)

// ChannelPriority lists the channels in the fixed search order used when
// matching discovered candidates.
var ChannelPriority = []Channel{HeaderChannel, CookieChannel, SessionChannel}
