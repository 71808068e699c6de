package parser

import "testing"

const batteryDump = `Current Battery Service state:
  AC powered: false
  USB powered: true
  Wireless powered: false
  Max charging current: 500000
  status: 2
  health: 2
  present: true
  level: 87
  scale: 100
  voltage: 4123
  temperature: 312
  technology: Li-ion`

func TestBattery(t *testing.T) {
	t.Run("full dump", func(t *testing.T) {
		status := Battery(batteryDump)
		assertIntPtr(t, status.Level, intPtr(87))
		assertFloatPtr(t, status.TempC, floatPtr(31.2))
	})

	t.Run("labels match case insensitively", func(t *testing.T) {
		status := Battery("Level: 42\nTemperature: 250")
		assertIntPtr(t, status.Level, intPtr(42))
		assertFloatPtr(t, status.TempC, floatPtr(25.0))
	})

	t.Run("level only", func(t *testing.T) {
		status := Battery("level: 13")
		assertIntPtr(t, status.Level, intPtr(13))
		assertFloatPtr(t, status.TempC, nil)
	})

	t.Run("malformed values are skipped", func(t *testing.T) {
		status := Battery("level: full\ntemperature: warm")
		assertIntPtr(t, status.Level, nil)
		assertFloatPtr(t, status.TempC, nil)
	})

	t.Run("empty text", func(t *testing.T) {
		status := Battery("")
		assertIntPtr(t, status.Level, nil)
		assertFloatPtr(t, status.TempC, nil)
	})
}

func intPtr(v int) *int { return &v }

func assertIntPtr(t *testing.T, got, want *int) {
	t.Helper()

	if want == nil {
		if got != nil {
			t.Fatalf("got %v, want absent", *got)
		}
		return
	}
	if got == nil {
		t.Fatalf("got absent, want %v", *want)
	}
	if *got != *want {
		t.Fatalf("got %v, want %v", *got, *want)
	}
}
