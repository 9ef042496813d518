// Package logging provides file-based logging with rotation for
// codesearchd. Logs are always written as JSON to ~/.codesearchd/logs/
// and, with the default config, to stderr as well.
//
// The --debug flag lowers the minimum level from info to debug.
package logging
