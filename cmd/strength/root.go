package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/authsecure/backend/internal/domain/valueobject"
	"github.com/authsecure/backend/internal/integration/entrypoint/dto"
	"github.com/authsecure/backend/internal/integration/meter"
)

// maxLineBytes bounds one stdin line. The classifier itself has no limit.
const maxLineBytes = 16 << 20

// strengthConfig holds the flags of the strength command.
type strengthConfig struct {
	strategy   string
	jsonOutput bool
	width      int
}

// NewRootCmd creates the strength command.
func NewRootCmd() *cobra.Command {
	cfg := &strengthConfig{}

	cmd := &cobra.Command{
		Use:   "strength [password...]",
		Short: "Classify password strength",
		Long: `Classify each password as Very Weak, Weak, Medium, Strong or Very Strong
and draw its strength meter. With no arguments, passwords are read from
standard input, one per line.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrength(cmd.InOrStdin(), cmd.OutOrStdout(), args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.strategy, "strategy", string(meter.StrategySegmented), "meter fill strategy: segmented or continuous")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "print one JSON object per password")
	cmd.Flags().IntVar(&cfg.width, "width", meter.DefaultTerminalWidth, "meter width in cells")

	return cmd
}

// runStrength classifies args, or stdin lines when args is empty, and writes one result per password.
func runStrength(in io.Reader, out io.Writer, args []string, cfg *strengthConfig) error {
	if cfg.strategy != string(meter.StrategySegmented) && cfg.strategy != string(meter.StrategyContinuous) {
		return fmt.Errorf("unknown strategy %q", cfg.strategy)
	}
	renderer := meter.NewRenderer(meter.Strategy(cfg.strategy))
	enc := json.NewEncoder(out)

	report := func(password string) error {
		level := valueobject.ClassifyPassword(password)
		if cfg.jsonOutput {
			return enc.Encode(dto.ToPasswordStrengthResponse(level, renderer.View(level)))
		}
		_, err := fmt.Fprintln(out, renderer.Terminal(level, cfg.width))
		return err
	}

	if len(args) > 0 {
		for _, password := range args {
			if err := report(password); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	for scanner.Scan() {
		if err := report(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read passwords: %w", err)
	}
	return nil
}
