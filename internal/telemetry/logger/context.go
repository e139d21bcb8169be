package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey    contextKey = "termsh.logger"
	sessionIDKey contextKey = "termsh.session_id"
	commandIDKey contextKey = "termsh.command_seq"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithSessionID adds the shell session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session ID from context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithCommandSeq adds the sequence number of the running command.
func WithCommandSeq(ctx context.Context, seq int) context.Context {
	return context.WithValue(ctx, commandIDKey, seq)
}

// CommandSeqFromContext extracts the command sequence number, or 0.
func CommandSeqFromContext(ctx context.Context) int {
	if seq, ok := ctx.Value(commandIDKey).(int); ok {
		return seq
	}
	return 0
}

// L is a shorthand for FromContext that also enriches the logger
// with the session ID and command sequence from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if id := SessionIDFromContext(ctx); id != "" {
		l = l.With("session_id", id)
	}
	if seq := CommandSeqFromContext(ctx); seq > 0 {
		l = l.With("command_seq", seq)
	}

	return l
}
