package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func TestNewWritesJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("image", "sofa.jpg").Msg("matched")

	out := buf.String()
	if !strings.Contains(out, `"image":"sofa.jpg"`) {
		t.Errorf("output missing field: %s", out)
	}
	if !strings.Contains(out, `"time"`) {
		t.Errorf("output missing timestamp: %s", out)
	}
}

func TestSetDefaultReplacesGlobal(t *testing.T) {
	original := *Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(New(&buf))

	Default().Info().Msg("via default")
	zlog.Info().Msg("via zerolog global")

	out := buf.String()
	if !strings.Contains(out, "via default") {
		t.Errorf("default logger not replaced: %s", out)
	}
	if !strings.Contains(out, "via zerolog global") {
		t.Errorf("zerolog global logger not replaced: %s", out)
	}
}

func TestNopDiscards(t *testing.T) {
	if Nop.GetLevel() != zerolog.Disabled {
		t.Errorf("Nop level = %v, want disabled", Nop.GetLevel())
	}
}
