package session

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Session carries the per-invocation output stream and logger. It is the only place
// a command's outcome is turned into a terminal marker and an exit code.
type Session struct {
	ID     uuid.UUID
	Logger *zap.Logger

	out        io.Writer
	terminated bool
}

func New(logger *zap.Logger, out io.Writer) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	id := uuid.New()
	return &Session{
		ID:     id,
		Logger: logger.With(zap.String("session", id.String())),
		out:    out,
	}
}

// Printf writes user facing output.
func (s *Session) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// Terminate reports the outcome once and returns the process exit code. Later calls
// only return the code.
func (s *Session) Terminate(err error) int {
	code := ExitSuccess
	if err != nil {
		code = ExitFailure
	}
	if s.terminated {
		return code
	}
	s.terminated = true

	if err != nil {
		s.Logger.Sugar().Debugw("Session failed", "error", err)
		s.Printf("❌ %v\n", err)
		return code
	}
	s.Printf("✅ Done\n")
	return code
}
