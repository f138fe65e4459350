/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: weights.go
Description: Weight functions for the Akaylee Identifier. Map a model's
implementation set to a non-negative scalar so the impurity-based selectors can
bias probe choice toward realistic prevalence assumptions.
*/

package selection

import (
	"strconv"
	"strings"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
)

// WeightEqual treats every model the same.
func WeightEqual(_ []interfaces.Implementation) float64 {
	return 1
}

// WeightCount weighs a model by the number of implementations that
// exhibited it during learning.
func WeightCount(implementations []interfaces.Implementation) float64 {
	return float64(len(implementations))
}

// WeightRecent weighs a model by summing a per-implementation recency
// score. This is an example usage weight, it does not reflect real
// world usage: newer major releases of the OpenSSL and mbedTLS
// families are considered more likely to be deployed.
func WeightRecent(implementations []interfaces.Implementation) float64 {
	total := 0.0
	for _, impl := range implementations {
		total += implementationWeightRecent(impl)
	}
	return total
}

// implementationWeightRecent scores one implementation label. Version
// ordering is lexical on major.minor, not full semantic versioning.
func implementationWeightRecent(impl interfaces.Implementation) float64 {
	weight := 1.0
	name := strings.ToLower(impl.Name)
	major, minor := parseMajorMinor(impl.Version)

	switch {
	case strings.Contains(name, "openssl"):
		weight *= 5
		if versionAtLeast(major, minor, 1, 1) {
			weight *= 5
		} else if versionAtLeast(major, minor, 1, 0) {
			weight *= 2
		}
	case strings.Contains(name, "mbedtls"):
		if versionAtLeast(major, minor, 2, 7) {
			weight *= 5
		} else if versionAtLeast(major, minor, 2, 0) {
			weight *= 2
		}
	}
	return weight
}

// parseMajorMinor extracts the leading numeric components of the
// first two dotted version parts. Non-numeric suffixes ("1.1.1k",
// "2.7-rc1") are ignored; missing parts read as zero.
func parseMajorMinor(version string) (int, int) {
	parts := strings.Split(version, ".")
	major := leadingInt(parts[0])
	minor := 0
	if len(parts) > 1 {
		minor = leadingInt(parts[1])
	}
	return major, minor
}

// leadingInt parses the numeric prefix of s, zero if there is none.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// versionAtLeast compares (major, minor) pairs.
func versionAtLeast(major, minor, wantMajor, wantMinor int) bool {
	if major != wantMajor {
		return major > wantMajor
	}
	return minor >= wantMinor
}

// Weights exposes the weight functions by name for CLI and benchmark
// wiring.
var Weights = map[string]interfaces.WeightFunc{
	"equal":  WeightEqual,
	"count":  WeightCount,
	"recent": WeightRecent,
}
