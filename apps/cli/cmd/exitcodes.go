package cmd

// Exit codes for getman CLI
const (
	// ExitSuccess indicates the request completed with a response
	ExitSuccess = 0

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage or an unsupported method
	ExitUsageError = 64
)
