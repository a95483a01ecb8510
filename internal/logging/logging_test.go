// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)
			logger.Debug("debug line", "component", "lib/a")
			logger.Info("info line")
			logger.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug printed = %v, want %v; output:\n%s", got, tt.wantDebug, out)
			}
			if tt.wantDebug && !strings.Contains(out, "component=lib/a") {
				t.Errorf("attributes missing from output:\n%s", out)
			}
			if !strings.Contains(out, "warn line") {
				t.Errorf("warning missing from output:\n%s", out)
			}
			if !strings.Contains(out, Prefix) {
				t.Errorf("prefix missing from output:\n%s", out)
			}
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() without a logger must not return nil")
	}

	var buf bytes.Buffer
	logger := New(&buf, false)
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Warn("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write, output: %q", buf.String())
	}
}
