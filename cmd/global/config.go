package global

import (
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/ui"
)

// LoadConfig reads, decodes and validates the configuration file.
// Any error terminates the process.
func LoadConfig() {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.Fatal("%v", err)
	}
}
