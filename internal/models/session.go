package models

// Session is a point-in-time view of the process-wide session. User is only
// set while Token is present and the service has confirmed it.
type Session struct {
	Token   string
	User    *User
	Loading bool
	Err     error
	// Cycle increments each time a validation starts.
	Cycle uint64
}

// Authenticated reports whether a validated identity is available.
func (s Session) Authenticated() bool {
	return !s.Loading && s.User != nil
}
