package session

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTerminate(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedOut  string
	}{
		{name: "success", err: nil, expectedCode: ExitSuccess, expectedOut: "✅ Done\n"},
		{name: "failure", err: errors.New("nonce request failed"), expectedCode: ExitFailure, expectedOut: "❌ nonce request failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := New(zaptest.NewLogger(t), &out)

			assert.Equal(t, tt.expectedCode, s.Terminate(tt.err))
			assert.Equal(t, tt.expectedOut, out.String())
		})
	}
}

func TestTerminate_ReportsOnce(t *testing.T) {
	var out bytes.Buffer
	s := New(zaptest.NewLogger(t), &out)

	assert.Equal(t, ExitFailure, s.Terminate(errors.New("boom")))
	assert.Equal(t, ExitFailure, s.Terminate(errors.New("boom again")))
	assert.Equal(t, "❌ boom\n", out.String())
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, nil)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.NotNil(t, s.Logger)
}
