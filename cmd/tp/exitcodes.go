package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config file or environment)
	ExitDataError   = 3 // Data error (malformed TEI, unreadable PDF, conversion refused)
	ExitUnavailable = 4 // GROBID unreachable or busy; retrying may help
)
