package cmd

// Exit codes for the crucible CLI
const (
	// ExitSuccess indicates every selected test resolved to PASS,
	// XFAIL or SKIP
	ExitSuccess = 0

	// ExitTestFailure indicates at least one FAIL or XPASS outcome
	ExitTestFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
