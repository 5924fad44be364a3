package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
)

func TestLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		opts    Options
		wantOut string
		wantErr string
	}{
		{
			name:    "default",
			opts:    Options{},
			wantOut: "2025-08-19T10:04:05.000000Z  INFO ran\n",
			wantErr: "2025-08-19T10:04:05.000000Z  WARN skipped row 1\n2025-08-19T10:04:05.000000Z ERROR boom\n",
		},
		{
			name:    "quiet hides info",
			opts:    Options{Quiet: true},
			wantOut: "",
			wantErr: "2025-08-19T10:04:05.000000Z  WARN skipped row 1\n2025-08-19T10:04:05.000000Z ERROR boom\n",
		},
		{
			name:    "verbose adds debug",
			opts:    Options{Verbose: true},
			wantOut: "2025-08-19T10:04:05.000000Z DEBUG detail\n2025-08-19T10:04:05.000000Z  INFO ran\n",
			wantErr: "2025-08-19T10:04:05.000000Z  WARN skipped row 1\n2025-08-19T10:04:05.000000Z ERROR boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer

			l := NewWithWriters(&out, &errOut, tt.opts)
			l.now = func() time.Time { return time.Date(2025, 8, 19, 19, 4, 5, 0, time.FixedZone("JST", 9*3600)) }

			l.Debug("detail")
			l.Info("ran")
			l.Warn("skipped row %d", 1)
			l.Error("boom")

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}
