// Package exitcode provides standardized exit codes for docsync
package exitcode

// Exit codes for the docsync tools
const (
	Success      = 0
	GeneralError = 1
	ConfigError  = 2
)
