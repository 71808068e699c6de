// Package parser turns raw diagnostic command output from the device into
// typed metric values. Every function is pure and total: malformed or
// unexpected text yields nil, never an error. Output dialects vary across
// device and OS versions, so metrics with several known shapes are extracted
// by an ordered list of independent strategies.
package parser

import (
	"strconv"
	"strings"
)

// appCPUMax bounds a plausible per-process CPU reading. Multi-core
// attribution can legitimately exceed 100%.
const appCPUMax = 800

// AppCPUFromTop extracts the target process CPU percentage from a ranked
// process listing (top -b -n 1). Among the whitespace tokens of the process
// line, the first one at index > 0 that parses as a number in [0, 800] wins.
// The PID column is excluded by position, not value, so a small PID never
// causes a false negative. Known limitation: on unusual column layouts a
// non-CPU numeric column may be captured first; the selection is kept as-is
// because recorded baselines depend on it.
func AppCPUFromTop(text, packageName string) *float64 {
	if packageName == "" {
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, packageName) {
			continue
		}

		fields := strings.Fields(line)
		for i, field := range fields {
			if i == 0 {
				// PID column.
				continue
			}
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			if value >= 0 && value <= appCPUMax {
				return &value
			}
		}
	}

	return nil
}

// TotalCPUStrategy extracts an aggregate CPU reading from one known output
// dialect, or nil when the dialect does not match.
type TotalCPUStrategy func(text string) *float64

// totalCPUStrategies is the fixed priority order for aggregate CPU
// extraction. The order is a compatibility contract.
var totalCPUStrategies = []TotalCPUStrategy{
	totalCPUFromTotalLine,
	totalCPUFromSummaryLine,
}

// TotalCPU runs the aggregate-CPU strategies over each text source in turn
// and returns the first value produced. Callers pass the primary source
// (dumpsys cpuinfo) first and any secondary source (top output) after it.
func TotalCPU(texts ...string) *float64 {
	for _, text := range texts {
		for _, strategy := range totalCPUStrategies {
			if value := strategy(text); value != nil {
				return value
			}
		}
	}
	return nil
}

// totalCPUFromTotalLine handles the dialect where a line carries a "TOTAL"
// marker (but not the literal "TOTAL:") and ends with a percentage token.
func totalCPUFromTotalLine(text string) *float64 {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "TOTAL") || strings.Contains(line, "TOTAL:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		last := fields[len(fields)-1]
		if !strings.HasSuffix(last, "%") {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSuffix(last, "%"), 64)
		if err != nil {
			continue
		}
		return &value
	}

	return nil
}

// totalCPUFromSummaryLine handles the summary dialect
// "<label>: N% user + M% kernel ..." by summing every percentage-suffixed
// numeric token on the line.
func totalCPUFromSummaryLine(text string) *float64 {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, ":") || !strings.Contains(line, "% user") {
			continue
		}

		var (
			sum     float64
			matched bool
		)
		for _, field := range strings.Fields(line) {
			if !strings.HasSuffix(field, "%") {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
			if err != nil {
				continue
			}
			sum += value
			matched = true
		}

		if matched {
			return &sum
		}
	}

	return nil
}

// AppCPUFromCpuinfo extracts the target process CPU percentage from a
// per-process ranked report (dumpsys cpuinfo). The first line mentioning the
// process that also carries a percent sign decides the result; there is no
// aggregation across further matching lines.
func AppCPUFromCpuinfo(text, packageName string) *float64 {
	if packageName == "" {
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, packageName) || !strings.Contains(line, "%") {
			continue
		}

		for _, field := range strings.Fields(line) {
			if !strings.HasSuffix(field, "%") {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
			if err != nil {
				return nil
			}
			return &value
		}

		return nil
	}

	return nil
}
