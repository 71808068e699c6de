package parser

import (
	"strconv"
	"strings"
)

// BatteryStatus holds the fields extracted from a dumpsys battery dump.
type BatteryStatus struct {
	Level *int
	TempC *float64
}

// Battery reads the charge level and temperature from a dumpsys battery
// dump. Labels match case-insensitively; the temperature field is reported
// in tenths of a degree and converted to Celsius.
func Battery(text string) BatteryStatus {
	var status BatteryStatus

	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(line, "level:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "level:"))
			if value, err := strconv.Atoi(raw); err == nil {
				status.Level = &value
			}
		case strings.HasPrefix(line, "temperature:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "temperature:"))
			if value, err := strconv.ParseFloat(raw, 64); err == nil {
				celsius := value / 10
				status.TempC = &celsius
			}
		}
	}

	return status
}
