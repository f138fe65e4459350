/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: benchmark.go
Description: Benchmark runner for the Akaylee Identifier. Replays identification
of every model in a tree through the simulated connector, across the selector and
weight-function matrix, and collects per-trial probe counts, reset counts, and
wall-clock durations for external aggregation and analysis.
*/

package benchmark

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-identifier/pkg/connector"
	"github.com/kleascm/akaylee-identifier/pkg/identify"
	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/kleascm/akaylee-identifier/pkg/selection"
	"github.com/sirupsen/logrus"
)

// Config controls the benchmark matrix.
type Config struct {
	// Iterations is the number of trials per model/selector/weight
	// combination.
	Iterations int
	// Parallelism bounds the worker pool. Zero means one worker per
	// CPU. Trials share no mutable state: every trial owns a tree
	// clone and a connector.
	Parallelism int
	// Selectors to benchmark, by registry name. Empty means all
	// registered selectors.
	Selectors []string
	// Weights to benchmark, by registry name. Only the gini selector
	// is sensitive to weighting, so the other selectors run with
	// "equal" alone. Empty means all registered weight functions.
	Weights []string
	Logger  *logrus.Logger
}

// TrialResult is the measurement of a single identification trial.
type TrialResult struct {
	Inputs   int           `json:"inputs"`
	Resets   int           `json:"resets"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates the trials of one model/selector/weight
// combination.
type Report struct {
	RunID    string             `json:"run_id"`
	Model    interfaces.ModelID `json:"model"`
	Selector string             `json:"selector"`
	Weight   string             `json:"weight"`
	Trials   []TrialResult      `json:"trials"`
}

// task is one combination to be measured.
type task struct {
	model    interfaces.ModelID
	selector string
	weight   string
}

// Run benchmarks identification of every model in the tree. The tree
// itself is never mutated: engines run on clones, simulated
// connectors read the pristine original.
func Run(tree *modeltree.Tree, config Config) ([]Report, error) {
	if config.Iterations <= 0 {
		config.Iterations = 1
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.NumCPU()
	}
	if len(config.Selectors) == 0 {
		for name := range selection.Selectors {
			config.Selectors = append(config.Selectors, name)
		}
	}
	if len(config.Weights) == 0 {
		for name := range selection.Weights {
			config.Weights = append(config.Weights, name)
		}
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
		config.Logger.SetLevel(logrus.WarnLevel)
	}

	tasks, err := buildMatrix(tree, config)
	if err != nil {
		return nil, err
	}

	taskCh := make(chan task)
	type outcome struct {
		report Report
		err    error
	}
	outcomeCh := make(chan outcome, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < config.Parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				report, err := runTask(tree, t, config)
				outcomeCh <- outcome{report: report, err: err}
			}
		}()
	}

	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)
	wg.Wait()
	close(outcomeCh)

	reports := make([]Report, 0, len(tasks))
	for out := range outcomeCh {
		if out.err != nil {
			return nil, out.err
		}
		reports = append(reports, out.report)
	}
	return reports, nil
}

// buildMatrix expands models, selectors, and weights into the trial
// combinations, validating registry names up front.
func buildMatrix(tree *modeltree.Tree, config Config) ([]task, error) {
	for _, name := range config.Selectors {
		if _, ok := selection.Selectors[name]; !ok {
			return nil, fmt.Errorf("unknown selector %q", name)
		}
	}
	for _, name := range config.Weights {
		if _, ok := selection.Weights[name]; !ok {
			return nil, fmt.Errorf("unknown weight function %q", name)
		}
	}

	var tasks []task
	for _, model := range tree.Models().Sorted() {
		for _, selectorName := range config.Selectors {
			weights := []string{"equal"}
			if selectorName == "gini" {
				weights = config.Weights
			}
			for _, weightName := range weights {
				tasks = append(tasks, task{model: model, selector: selectorName, weight: weightName})
			}
		}
	}
	return tasks, nil
}

// runTask measures all iterations of one combination.
func runTask(tree *modeltree.Tree, t task, config Config) (Report, error) {
	report := Report{
		RunID:    uuid.New().String(),
		Model:    t.model,
		Selector: t.selector,
		Weight:   t.weight,
		Trials:   make([]TrialResult, 0, config.Iterations),
	}

	for i := 0; i < config.Iterations; i++ {
		conn := connector.NewSimulated(t.model, tree)
		engine := identify.NewEngine(tree.Clone(), conn, identify.Config{
			Selector: selection.Selectors[t.selector],
			Weight:   selection.Weights[t.weight],
			Logger:   config.Logger,
		})

		result, err := engine.Run()
		if err != nil {
			return report, fmt.Errorf("benchmark of model %q (%s/%s) failed: %w",
				t.model, t.selector, t.weight, err)
		}
		// A simulated trial must converge on exactly its target.
		if len(result.Models) != 1 || result.Models[0] != t.model {
			return report, fmt.Errorf("unexpected benchmark candidates for model %q: got %v",
				t.model, result.Models)
		}

		report.Trials = append(report.Trials, TrialResult{
			Inputs:   result.Inputs,
			Resets:   result.Resets,
			Duration: result.Duration,
		})
	}
	return report, nil
}
