package chansql

import "errors"

// Errors shared by the command-line front end
var (
	// ErrGuildRequired is returned when no guild is configured for a session.
	ErrGuildRequired = errors.New("guild is not configured: set guild in the config file or DEV_GUILD_ID")
	// ErrUserRequired is returned when no user is configured for a session.
	ErrUserRequired = errors.New("user is not configured")
)
