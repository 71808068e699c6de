package parser

import (
	"strconv"
	"strings"
)

// AppMemPSS extracts the application PSS total in kilobytes from a dumpsys
// meminfo dump: the line starting with the bare token "TOTAL" (the summary
// variant with "TOTAL:" belongs to a different section and is skipped), first
// purely numeric token after the label.
func AppMemPSS(text string) *int64 {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "TOTAL") || strings.Contains(line, "TOTAL:") {
			continue
		}

		fields := strings.Fields(line)
		for _, field := range fields[1:] {
			if !isDigits(field) {
				continue
			}
			value, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				continue
			}
			return &value
		}
	}

	return nil
}

// SystemMemory holds the fields extracted from a /proc/meminfo dump.
type SystemMemory struct {
	TotalKB     *int64
	AvailableKB *int64
	UsedPercent *float64
}

// SystemMemoryInfo reads MemTotal/MemAvailable from a key-value meminfo dump
// and derives the used percentage when the total is positive.
func SystemMemoryInfo(text string) SystemMemory {
	var mem SystemMemory

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			mem.TotalKB = meminfoValue(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			mem.AvailableKB = meminfoValue(line)
		}
	}

	if mem.TotalKB != nil && mem.AvailableKB != nil && *mem.TotalKB > 0 {
		used := (1 - float64(*mem.AvailableKB)/float64(*mem.TotalKB)) * 100
		mem.UsedPercent = &used
	}

	return mem
}

// meminfoValue parses the first numeric token after a meminfo label.
func meminfoValue(line string) *int64 {
	fields := strings.Fields(line)
	for _, field := range fields[1:] {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		return &value
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
