package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/console"
)

var nestestStart uint16

var nestestCmd = &cobra.Command{
	Use:   "nestest <rom> <reference-log>",
	Short: "Run a ROM headless and diff its CPU trace against a reference log",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := loadCartridge(args[0])
		if err != nil {
			return err
		}

		ref, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening reference log: %w", err)
		}
		defer ref.Close()

		bus := console.New(cart)
		bus.CPU().PC = nestestStart

		scanner := bufio.NewScanner(ref)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			want, err := parseReferenceLine(scanner.Text())
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}

			got := normalizeTrace(bus.CPU().Trace())
			if got != want {
				return fmt.Errorf("mismatch at reference line %d: got %q want %q", lineNo, got, want)
			}

			bus.Step()
		}

		fmt.Printf("%d instructions matched the reference log\n", lineNo)
		return scanner.Err()
	},
}

func init() {
	nestestCmd.Flags().Uint16Var(&nestestStart, "pc", 0xC000, "initial PC (nestest automation entry point)")
}

// traceFields matches our own CPU.Trace() output: "PPPP A:AA X:XX Y:YY P:PP SP:SS CYC:n".
var traceFields = regexp.MustCompile(`^([0-9A-F]{4}).*\bA:([0-9A-F]{2}) X:([0-9A-F]{2}) Y:([0-9A-F]{2}) P:([0-9A-F]{2}) SP:([0-9A-F]{2})`)

// normalizeTrace drops the CYC suffix, which nestest's reference logs and
// this core count on different conventions (PPU dots vs. CPU cycles).
func normalizeTrace(line string) string {
	m := traceFields.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	return fmt.Sprintf("%s A:%s X:%s Y:%s P:%s SP:%s", m[1], m[2], m[3], m[4], m[5], m[6])
}

// parseReferenceLine extracts the comparable register fields from one
// nestest-format log line (which also carries a disassembly column and a
// PPU dot/scanline column this core's simplified trace doesn't produce).
func parseReferenceLine(line string) (string, error) {
	if traceFields.FindStringSubmatch(line) == nil {
		return "", fmt.Errorf("unrecognized reference log line: %q", line)
	}
	return normalizeTrace(line), nil
}
