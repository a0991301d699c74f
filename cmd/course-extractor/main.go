// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the course-extractor CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger receives structured diagnostics. It is replaced in
// PersistentPreRunE once --verbose is known.
var logger = zap.NewNop()

// rootCmd is the base command for the course-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "course-extractor",
	Short: "Build a catalog of programming exercises from course material",
	Long: `course-extractor reads a directory of course pages written in markdown
or HTML, finds the programming exercises embedded in them, and produces a
normalized catalog: one record per exercise with its title, description,
requirements, hints, examples, starter code, test cases, points and difficulty.

The catalog can be written as YAML or JSON, summarized as a text report, or
stored in a local SQLite index for full-text search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// newLogger returns a console logger writing to stderr. Without verbose only
// warnings and errors are emitted.
func newLogger(verbose bool) (*zap.Logger, error) {
	var config zap.Config
	if verbose {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		config.Encoding = "console"
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	return config.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./course-extractor.yaml or ~/.config/course-extractor/course-extractor.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log duplicate identifiers and other diagnostics")

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("course-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "course-extractor"))
		}
	}

	viper.SetEnvPrefix("COURSE_EXTRACTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
