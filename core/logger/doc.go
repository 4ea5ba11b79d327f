// Package logger holds the shell's two log streams: the termination journal
// shown to users and the zap diagnostic logger.
package logger
