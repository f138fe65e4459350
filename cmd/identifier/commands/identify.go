/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: identify.go
Description: Identify command implementation for the Akaylee Identifier. Loads
the learned model tree, wires the requested selector, weight function, and
connector (live harness or simulated replay), and runs one identification
attempt.
*/

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kleascm/akaylee-identifier/pkg/connector"
	"github.com/kleascm/akaylee-identifier/pkg/identify"
	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunIdentify executes one identification attempt.
func RunIdentify(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"tree":         "tree",
		"target_host":  "target",
		"target_port":  "port",
		"harness_jar":  "harness-jar",
		"message_dir":  "message-dir",
		"harness_addr": "harness-addr",
		"timeout":      "timeout",
		"selector":     "selector",
		"weight":       "weight",
		"simulate":     "simulate",
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

	selector, err := ResolveSelector(viper.GetString("selector"))
	if err != nil {
		return err
	}
	weight, err := ResolveWeight(viper.GetString("weight"))
	if err != nil {
		return err
	}

	var conn interfaces.Connector
	engineTree := tree
	if simulate := viper.GetString("simulate"); simulate != "" {
		target := interfaces.ModelID(simulate)
		if !tree.Models().Contains(target) {
			return fmt.Errorf("model %q is not in the tree", simulate)
		}
		// The simulator walks the pristine tree; the engine prunes a clone.
		conn = connector.NewSimulated(target, tree)
		engineTree = tree.Clone()
	} else {
		if viper.GetString("target_host") == "" {
			return fmt.Errorf("either --target or --simulate is required")
		}
		conn, err = connector.NewLive(connector.LiveConfig{
			HarnessJar:  viper.GetString("harness_jar"),
			MessageDir:  viper.GetString("message_dir"),
			TargetHost:  viper.GetString("target_host"),
			TargetPort:  viper.GetInt("target_port"),
			HarnessAddr: viper.GetString("harness_addr"),
			ReadTimeout: viper.GetDuration("timeout"),
		}, logger)
		if err != nil {
			return err
		}
	}

	engine := identify.NewEngine(engineTree, conn, identify.Config{
		Selector: selector,
		Weight:   weight,
		Logger:   logger,
	})

	result, err := engine.Run()
	if errors.Is(err, identify.ErrNoMatchingPath) {
		// The peer behaves like no model seen during learning. That is
		// an answer, not a crash.
		fmt.Println("No matching model: unknown implementation")
		return nil
	}
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(output))
	return nil
}
