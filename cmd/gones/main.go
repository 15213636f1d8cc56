// Command gones runs the NES emulator: a windowed "run" mode, a
// headless "trace" mode for instruction-level debugging, and a
// "version" subcommand, built on cobra per spec.md §1's "external CLI,
// not part of the core" boundary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gones/internal/app"
	"gones/internal/version"
)

var (
	configPath string
	headless   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gones",
		Short: "gones is a NES emulator",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	root.PersistentFlags().BoolVar(&headless, "headless", false, "force the headless graphics backend")

	root.AddCommand(newRunCmd())
	root.AddCommand(newTraceCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "run a ROM in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Cleanup()

			if err := application.LoadROM(args[0]); err != nil {
				return fmt.Errorf("load rom: %w", err)
			}

			ctx := withSignalCancel(context.Background())
			return application.Run(ctx)
		},
	}
	return cmd
}

func newTraceCmd() *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "trace <rom>",
		Short: "run a ROM headlessly and print its trace log and test-mode status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			if err := application.EnableHeadlessTestMode(); err != nil {
				return err
			}
			defer application.Cleanup()

			if err := application.LoadROM(args[0]); err != nil {
				return fmt.Errorf("load rom: %w", err)
			}

			sys := application.System()
			for i := 0; i < frames*ntscCyclesPerFrame && !sys.Halted(); {
				i += int(sys.Step())
			}

			for _, entry := range sys.Trace.Recent() {
				fmt.Println(entry.String())
			}
			fmt.Printf("test status: $%02X\n", sys.TestStatus())
			if msg := sys.TestMessage(); msg != "" {
				fmt.Println(msg)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 120, "number of video frames to run before reporting")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.GetDetailedVersion())
			return nil
		},
	}
}

func newApplication() (*app.Application, error) {
	return app.NewApplication(configPath)
}

// withSignalCancel cancels the returned context on SIGINT/SIGTERM, for
// a clean shutdown (including the battery-save flush in Cleanup) when
// the user Ctrl-Cs a running emulator.
func withSignalCancel(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

const ntscCyclesPerFrame = 29781
