/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: benchmark.go
Description: Benchmark command implementation for the Akaylee Identifier. Runs
the benchmark matrix over a learned tree and writes the per-trial metrics to the
output directory for external analysis.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-identifier/pkg/benchmark"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunBenchmark executes the benchmark matrix.
func RunBenchmark(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"tree":        "tree",
		"iterations":  "iterations",
		"parallelism": "parallelism",
		"selectors":   "selectors",
		"weights":     "weights",
		"output_dir":  "output",
	})
	if err != nil {
		return err
	}
	if err := LoadConfig(); err != nil {
		return err
	}
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	tree, err := modeltree.LoadFile(viper.GetString("tree"))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"models":     len(tree.Models()),
		"iterations": viper.GetInt("iterations"),
	}).Info("Starting benchmark")

	reports, err := benchmark.Run(tree, benchmark.Config{
		Iterations:  viper.GetInt("iterations"),
		Parallelism: viper.GetInt("parallelism"),
		Selectors:   viper.GetStringSlice("selectors"),
		Weights:     viper.GetStringSlice("weights"),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	path, err := benchmark.WriteReports(viper.GetString("output_dir"), reports)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"combinations": len(reports),
		"output":       path,
	}).Info("Benchmark complete")
	return nil
}
