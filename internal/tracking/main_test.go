package tracking

import (
	"os"
	"testing"

	"github.com/wearview/fitmirror/internal/logger"
)

func TestMain(m *testing.M) {
	// Quiet logger: no console, no file.
	_ = logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}
