/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Utility for writing benchmark reports to the metrics directory.
Handles timestamped file naming, ensures directories exist, and writes JSON
files for easy analysis by external tooling.
*/

package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// reportDocument is the on-disk envelope for a benchmark run.
type reportDocument struct {
	CreatedAt time.Time `json:"created_at"`
	Reports   []Report  `json:"reports"`
}

// WriteReports writes the reports of one benchmark run to the output
// directory as a timestamped JSON file and returns its path.
func WriteReports(outputDir string, reports []Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}

	// Filename example: 2024-06-11_01-30-00_benchmark.json
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(outputDir, fmt.Sprintf("%s_benchmark.json", timestamp))

	data, err := json.MarshalIndent(reportDocument{
		CreatedAt: time.Now(),
		Reports:   reports,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal benchmark reports: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}
	return filePath, nil
}
