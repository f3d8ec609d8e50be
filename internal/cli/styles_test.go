package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		icon   string
	}{
		{"success", FormatSuccess, successIcon},
		{"error", FormatError, ErrorIcon},
		{"warning", FormatWarning, WarningIcon},
		{"info", FormatInfo, infoIcon},
		{"title", FormatTitle, HomeIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("Wrote 3 rows")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "Wrote 3 rows")
		})
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox(BroomIcon+" Data Quality", "Rows read: 10")
	assert.Contains(t, out, "Data Quality")
	assert.Contains(t, out, "Rows read: 10")
	assert.Contains(t, out, "╭")
}
