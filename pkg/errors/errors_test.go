package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(CodePersistenceError, "failed to save summary", cause)

	require.True(t, IsCode(err, CodePersistenceError))
	require.False(t, IsCode(err, CodeUnknown))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "failed to save summary: dial tcp: refused", err.Error())
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeMissingToken, CodeOf(Wrap(CodeMissingToken, "no token", nil)))
	require.Equal(t, CodeMissingToken, CodeOf(fmt.Errorf("outer: %w", Wrap(CodeMissingToken, "no token", nil))))
	require.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error hides cause", err: Wrap(CodeGenerationError, "generation failed", errors.New("secret detail")), want: "generation failed"},
		{name: "plain error", err: errors.New("boom"), want: "Unknown error"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, MessageOf(tt.err))
		})
	}
}
