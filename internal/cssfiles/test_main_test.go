package cssfiles

import (
	"os"
	"testing"

	"github.com/klauern/styleimport/internal/ui"
)

func TestMain(m *testing.M) {
	ui.DisableColors()
	os.Exit(m.Run())
}
