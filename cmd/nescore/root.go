package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/cartridge"
	"github.com/nescore/nescore/internal/telemetry"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "nescore",
	Short: "A cycle-accurate NES emulator core",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "off|error|warn|info|debug")
	rootCmd.AddCommand(runCmd, nestestCmd, infoCmd)
}

func newLogger() *telemetry.Logger {
	return telemetry.New(telemetry.ParseLevel(logLevel), os.Stderr)
}

// loadCartridge opens path and reports cartridge.LoadError's Result as part
// of the error chain, so exitCodeFor can map it to a process exit status.
func loadCartridge(path string) (*cartridge.Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &cartridge.LoadError{Result: cartridge.NOT_FOUND, Err: err}
	}
	defer f.Close()

	cart, lerr := cartridge.New(f)
	if lerr != nil {
		return nil, lerr
	}
	return cart, nil
}

// exitCodeFor maps a cartridge.LoadError's Result to a process exit code;
// any other error exits 1.
func exitCodeFor(err error) int {
	var lerr *cartridge.LoadError
	if errors.As(err, &lerr) {
		switch lerr.Result {
		case cartridge.NOT_FOUND:
			return 2
		case cartridge.INVALID:
			return 3
		case cartridge.UNSUPPORTED:
			return 4
		}
	}
	return 1
}
