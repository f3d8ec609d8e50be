package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	err := NewUserError("could not load listings", ErrSourceUnreadable)

	assert.Equal(t, "could not load listings: source file unreadable", err.Error())
	assert.True(t, errors.Is(err, ErrSourceUnreadable))

	bare := &UserError{UserMessage: "nothing to show"}
	assert.Equal(t, "nothing to show", bare.Error())
}

func TestRowError(t *testing.T) {
	err := &RowError{Line: 12, Err: fmt.Errorf("%w: price %q", ErrMalformedRow, "abc")}

	assert.Equal(t, `line 12: malformed row: price "abc"`, err.Error())
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "upper case", input: "WARN", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "unknown", input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	slog.New(h).Info("loaded", "rows", 3)
	assert.Contains(t, buf.String(), `"rows":3`)

	buf.Reset()
	h, err = NewHandler(&buf, slog.LevelInfo, "console")
	require.NoError(t, err)
	slog.New(h).Debug("hidden")
	assert.Empty(t, buf.String())

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
