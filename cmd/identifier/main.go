/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee Identifier. Provides
command-line options, configuration management, and logging setup for
identifying protocol implementations and benchmarking the identification engine.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/akaylee-identifier/cmd/identifier/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logFormat  string
	logDir     string

	// Tree configuration
	treeFile string

	// Target configuration
	targetHost  string
	targetPort  int
	harnessJar  string
	messageDir  string
	harnessAddr string
	readTimeout time.Duration

	// Strategy configuration
	selectorName string
	weightName   string

	// Simulation configuration
	simulateModel string

	// Benchmark configuration
	iterations  int
	parallelism int
	selectors   []string
	weights     []string
	outputDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "akaylee-identifier",
		Short: "Akaylee Identifier - Behavioral fingerprinting engine for protocol implementations",
		Long: `Akaylee Identifier performs active, black-box identification of which
implementation a remote peer is running. It exchanges protocol messages with the
peer and narrows a set of previously learned behavioral models until the
candidate set is minimal, using information-theoretic probe selection.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Log output directory (empty: stderr only)")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))

	// Add identify command
	identifyCmd := &cobra.Command{
		Use:   "identify",
		Short: "Identify the implementation a peer is running",
		Long: `Run one identification attempt against a live peer through the probing
harness, or against a simulated target model for deterministic replay. Prints the
minimal candidate set of models and their implementation labels.`,
		RunE: commands.RunIdentify,
	}

	identifyCmd.Flags().StringVar(&treeFile, "tree", "", "Path to the learned model tree (required)")
	identifyCmd.Flags().StringVar(&targetHost, "target", "", "Host of the peer to identify")
	identifyCmd.Flags().IntVar(&targetPort, "port", 443, "Port of the peer to identify")
	identifyCmd.Flags().StringVar(&harnessJar, "harness-jar", "", "Path to the probing harness jar")
	identifyCmd.Flags().StringVar(&messageDir, "message-dir", "", "Directory of protocol message definitions")
	identifyCmd.Flags().StringVar(&harnessAddr, "harness-addr", "localhost:6666", "Harness control socket address")
	identifyCmd.Flags().DurationVar(&readTimeout, "timeout", 30*time.Second, "Read timeout per probe round-trip")
	identifyCmd.Flags().StringVar(&selectorName, "selector", "gini", "Input selector (random, first, gini)")
	identifyCmd.Flags().StringVar(&weightName, "weight", "equal", "Weight function (equal, count, recent)")
	identifyCmd.Flags().StringVar(&simulateModel, "simulate", "", "Replay against this model instead of a live peer")

	identifyCmd.MarkFlagRequired("tree")

	rootCmd.AddCommand(identifyCmd)

	// Add benchmark command
	benchmarkCmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Benchmark identification of every model in a tree",
		Long: `Replay identification of every model in the tree through the simulated
connector, across the selector and weight-function matrix, and write per-trial
probe counts, reset counts, and durations as JSON for external analysis.`,
		RunE: commands.RunBenchmark,
	}

	benchmarkCmd.Flags().StringVar(&treeFile, "tree", "", "Path to the learned model tree (required)")
	benchmarkCmd.Flags().IntVar(&iterations, "iterations", 100, "Trials per model/selector/weight combination")
	benchmarkCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Worker pool size (0 = one per CPU)")
	benchmarkCmd.Flags().StringSliceVar(&selectors, "selectors", []string{}, "Selectors to benchmark (default: all)")
	benchmarkCmd.Flags().StringSliceVar(&weights, "weights", []string{}, "Weight functions to benchmark (default: all)")
	benchmarkCmd.Flags().StringVar(&outputDir, "output", "./metrics", "Directory for benchmark reports")

	benchmarkCmd.MarkFlagRequired("tree")

	rootCmd.AddCommand(benchmarkCmd)

	// Add list-selectors command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-selectors",
		Short: "List available input selectors and weight functions",
		Run:   commands.ListSelectors,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
