// Package logging provides a simple leveled logging interface for the
// portfolio server and its tools.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The initial level comes from the LOG_LEVEL environment variable (DEBUG=1
// forces debug); SetLevel overrides it at runtime.
package logging
