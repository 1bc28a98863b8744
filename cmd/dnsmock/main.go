// SPDX-License-Identifier: GPL-3.0-or-later

// Command dnsmock serves a YAML-declared record dictionary over UDP,
// for poking a mock configuration with dig outside a test suite.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fossabot/dnsmock"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		port        uint16
		recordsPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:           "dnsmock",
		Short:         "Serve pre-declared DNS records over UDP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			records := dnsmock.Records{}
			if recordsPath != "" {
				raw, err := os.ReadFile(recordsPath)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(raw, &records); err != nil {
					return err
				}
			}

			srv, err := dnsmock.StartServer(
				dnsmock.WithRecords(records),
				dnsmock.WithPort(port),
				dnsmock.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			logger.Info().Str("addr", srv.Addr()).Msg("serving; interrupt to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			dnsmock.StopRunningServers()
			return nil
		},
	}

	cmd.Flags().Uint16Var(&port, "port", dnsmock.DefaultPort, "UDP port to bind (0 for a kernel-assigned port)")
	cmd.Flags().StringVar(&recordsPath, "records", "", "YAML file mapping owner names to record sets")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every query")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
