// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/collectionlint/cmd/collectionlint/commands"
	"github.com/walteh/collectionlint/cmd/collectionlint/opts"
	"github.com/walteh/collectionlint/pkg/config"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "collectionlint",
		Short: "Turn Postman collections into versioned, self-checking test suites",
		Long: `collectionlint rewrites exported Postman collections: it versions the name,
parameterizes headers and base URLs, expands saved response examples into their own
requests and generates pm.test assertions from each example body.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(cmd.ErrOrStderr(), root.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	addRootFlags(rootCmd, root)

	rootCmd.AddCommand(
		commands.NewTransformCmd(root),
		commands.NewStatusCmd(root),
		commands.NewWatchCmd(root),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, root *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&root.ConfigFile, "config", "c", "", "config file path (default: first of "+defaultNames()+" in the working directory)")
	cmd.PersistentFlags().BoolVarP(&root.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) *zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return &logger
}

func defaultNames() string {
	return strings.Join(config.DefaultNames, ", ")
}
