/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared helpers for the Akaylee Identifier CLI commands. Handles
configuration file loading, logging setup, and resolution of selector and
weight-function registry names.
*/

package commands

import (
	"fmt"
	"sort"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/logging"
	"github.com/kleascm/akaylee-identifier/pkg/selection"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindFlags binds a command's local flags to viper keys. Binding at
// run time keeps flag names that several commands share (like "tree")
// from clobbering each other's keys at startup.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// LoadConfig reads the optional configuration file into viper.
func LoadConfig() error {
	configFile := viper.GetString("config")
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}
	return nil
}

// SetupLogging builds the logger from the persistent logging flags.
func SetupLogging() (*logrus.Logger, error) {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    logging.LogFormat(viper.GetString("log_format")),
		OutputDir: viper.GetString("log_dir"),
		Colors:    true,
	})
}

// ResolveSelector looks up a selector by registry name.
func ResolveSelector(name string) (selection.Selector, error) {
	selector, ok := selection.Selectors[name]
	if !ok {
		return nil, fmt.Errorf("unknown selector %q (available: %v)", name, registryNames(selection.Selectors))
	}
	return selector, nil
}

// ResolveWeight looks up a weight function by registry name.
func ResolveWeight(name string) (interfaces.WeightFunc, error) {
	weight, ok := selection.Weights[name]
	if !ok {
		return nil, fmt.Errorf("unknown weight function %q (available: %v)", name, registryNames(selection.Weights))
	}
	return weight, nil
}

// registryNames returns sorted registry keys for error messages.
func registryNames[V any](registry map[string]V) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListSelectors prints the available selectors and weight functions.
func ListSelectors(cmd *cobra.Command, args []string) {
	fmt.Println("Input selectors:")
	for _, name := range registryNames(selection.Selectors) {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Weight functions:")
	for _, name := range registryNames(selection.Weights) {
		fmt.Printf("  %s\n", name)
	}
}
