package cli

import (
	"os"
	"testing"

	"github.com/klauern/styleimport/internal/ui"
)

func TestMain(m *testing.M) {
	for _, key := range []string{
		"STYLEIMPORT_STYLES_DIR",
		"STYLEIMPORT_MASTER_FILE",
		"STYLEIMPORT_ENABLED_STYLES",
		"STYLEIMPORT_INDENT",
		"STYLEIMPORT_OUTPUT_COLOR",
		"STYLEIMPORT_SHOW_DIFF",
	} {
		_ = os.Unsetenv(key)
	}
	ui.DisableColors()
	os.Exit(m.Run())
}
