/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: Identifier.go
Description: Standalone demonstration harness for the Akaylee Identifier. Builds
a small in-memory model tree, replays identification of every model through the
simulated connector with the gini selector, and writes a JSON report to
./demo_output. Modular, clean, and beautiful.
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/akaylee-identifier/pkg/connector"
	"github.com/kleascm/akaylee-identifier/pkg/identify"
	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/kleascm/akaylee-identifier/pkg/selection"
	"github.com/sirupsen/logrus"
)

type DemoResult struct {
	Target     string   `json:"target"`
	Identified []string `json:"identified"`
	Inputs     int      `json:"inputs"`
	Resets     int      `json:"resets"`
	Duration   string   `json:"duration"`
	Transcript []string `json:"transcript"`
}

func demoTree() (*modeltree.Tree, error) {
	mapping := interfaces.ModelMapping{
		"model-openssl-1.1.1": {{Name: "openssl", Version: "1.1.1"}},
		"model-openssl-0.9.7": {{Name: "openssl", Version: "0.9.7"}},
		"model-mbedtls-2.16":  {{Name: "mbedtls", Version: "2.16.3"}},
	}
	tree := modeltree.New(mapping)
	leaves := []struct {
		path   modeltree.Path
		models []interfaces.ModelID
	}{
		{modeltree.Path{"ClientHelloRSA", "ServerHello"}, []interfaces.ModelID{"model-openssl-1.1.1"}},
		{modeltree.Path{"ClientHelloRSA", "Alert"}, []interfaces.ModelID{"model-openssl-0.9.7", "model-mbedtls-2.16"}},
		{modeltree.Path{"ClientHelloDHE", "ServerHello"}, []interfaces.ModelID{"model-openssl-1.1.1", "model-openssl-0.9.7"}},
		{modeltree.Path{"ClientHelloDHE", "Alert"}, []interfaces.ModelID{"model-mbedtls-2.16"}},
	}
	for _, leaf := range leaves {
		if err := tree.InsertPath(leaf.path, leaf.models...); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func identifyModel(tree *modeltree.Tree, target interfaces.ModelID, logger *logrus.Logger) (DemoResult, error) {
	sim := connector.NewSimulated(target, tree)
	engine := identify.NewEngine(tree.Clone(), sim, identify.Config{
		Selector: selection.SelectGini,
		Weight:   selection.WeightEqual,
		Logger:   logger,
	})
	start := time.Now()
	result, err := engine.Run()
	if err != nil {
		return DemoResult{}, err
	}
	identified := make([]string, 0, len(result.Models))
	for _, id := range result.Models {
		identified = append(identified, string(id))
	}
	return DemoResult{
		Target:     string(target),
		Identified: identified,
		Inputs:     result.Inputs,
		Resets:     result.Resets,
		Duration:   time.Since(start).String(),
		Transcript: sim.Transcript(),
	}, nil
}

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	tree, err := demoTree()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build demo tree: %v\n", err)
		os.Exit(1)
	}

	var results []DemoResult
	for _, target := range tree.Models().Sorted() {
		result, err := identifyModel(tree, target, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "identification of %s failed: %v\n", target, err)
			os.Exit(1)
		}
		fmt.Printf("%s -> %v (%d inputs, %d resets)\n",
			result.Target, result.Identified, result.Inputs, result.Resets)
		results = append(results, result)
	}

	report, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal report: %v\n", err)
		os.Exit(1)
	}
	outDir := "demo_output"
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", outDir, err)
		os.Exit(1)
	}
	reportPath := filepath.Join(outDir, "identify_report.json")
	if err := os.WriteFile(reportPath, report, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", reportPath)
}
