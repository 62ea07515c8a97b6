package main

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid paths)
	ExitNotFound    = 3 // Entry, journal, or attachment not found
	ExitAborted     = 4 // User abandoned an interactive resolution
)
