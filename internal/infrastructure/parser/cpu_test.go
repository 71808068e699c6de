package parser

import (
	"math"
	"testing"
)

const topOutput = `Tasks: 512 total,   1 running, 511 sleeping,   0 stopped,   0 zombie
  Mem:      7.4G total,      7.1G used,      368M free,       12M buffers
400%cpu  22%user   0%nice  30%sys 345%idle   0%iow   3%irq   0%sirq   0%host
  PID USER         PR  NI VIRT  RES  SHR S[%CPU] %MEM     TIME+ ARGS
 4521 u0_a231      RT -10  28G 412M 180M S  37.5  5.4  12:41.33 com.example.demoapp
 1228 system       RT  -2  26G 338M 221M S   8.3  4.4 122:02.17 system_server
  612 root         -2   0    0    0    0 S   0.9  0.0   9:10.02 [kworker/u16:2]`

func TestAppCPUFromTop(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		packageName string
		expected    *float64
	}{
		{"target present", topOutput, "com.example.demoapp", floatPtr(37.5)},
		{"other process untouched", topOutput, "system_server", floatPtr(8.3)},
		{"target absent", topOutput, "com.example.missing", nil},
		{"empty package", topOutput, "", nil},
		{"empty text", "", "com.example.demoapp", nil},
		{
			// PID 7 is small and numeric but sits in column 0.
			"small pid excluded by position",
			"    7 u0_a231 RT -10 28G 412M 180M S 12.0 5.4 0:01.00 com.example.demoapp",
			"com.example.demoapp",
			floatPtr(12.0),
		},
		{
			// 950 exceeds the multi-core bound and is skipped; 25.5 wins.
			"out of range token skipped",
			"4521 u0_a231 950 25.5 com.example.demoapp",
			"com.example.demoapp",
			floatPtr(25.5),
		},
		{
			"multi-core value above 100 accepted",
			"4521 u0_a231 RT -10 28G 412M 180M S 215.0 5.4 0:01.00 com.example.demoapp",
			"com.example.demoapp",
			floatPtr(215.0),
		},
		{
			// Documents the known limitation: a numeric priority column in
			// [0, 800] is captured before the actual CPU column.
			"earlier in-range numeric column wins",
			"4521 u0_a231 10 -10 28G 412M 180M S 37.5 5.4 0:01.00 com.example.demoapp",
			"com.example.demoapp",
			floatPtr(10.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppCPUFromTop(tt.text, tt.packageName)
			assertFloatPtr(t, got, tt.expected)
		})
	}
}

const cpuinfoOutput = `Load: 12.45 / 13.01 / 13.11
CPU usage from 4954ms to 58ms ago (2026-08-01 12:00:00.000 to 2026-08-01 12:00:04.896):
  41% 4521/com.example.demoapp: 30% user + 11% kernel / faults: 120 minor
  8.3% 1228/system_server: 5.1% user + 3.2% kernel
13% TOTAL: 7.9% user + 4.5% kernel + 0.6% iowait`

func TestTotalCPU(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		expected *float64
	}{
		{
			// "TOTAL:" lines are rejected by the marker strategy, so the
			// summary strategy answers. It sums every percent token on the
			// first line carrying "% user", which here is the per-process
			// line: 41 + 30 + 11.
			"summary dialect from full report",
			[]string{cpuinfoOutput},
			floatPtr(82.0),
		},
		{
			"summary dialect single line",
			[]string{"cpu: 7.9% user + 4.5% kernel + 0.6% iowait"},
			floatPtr(13.0),
		},
		{
			"total marker dialect",
			[]string{"User 10%, System 5%\n 100 33% TOTAL 15.2%"},
			floatPtr(15.2),
		},
		{
			"marker strategy has priority over summary",
			[]string{"cpu TOTAL 12.0%\nx: 1% user + 2% kernel"},
			floatPtr(12.0),
		},
		{
			"marker skips literal TOTAL colon",
			[]string{"13% TOTAL: 7.9%\ncpu TOTAL 9.1%"},
			floatPtr(9.1),
		},
		{
			"marker requires trailing percent token",
			[]string{"cpu TOTAL twelve"},
			nil,
		},
		{
			"fallback to secondary source",
			[]string{"no cpu data here", "idle TOTAL 55.5%"},
			floatPtr(55.5),
		},
		{
			"primary exhausts both strategies before secondary",
			[]string{"cpu: 1% user", "idle TOTAL 55.5%"},
			floatPtr(1.0),
		},
		{"no dialect matches", []string{"garbage", "more garbage"}, nil},
		{"empty input", []string{""}, nil},
		{"no sources", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalCPU(tt.texts...)
			assertFloatPtr(t, got, tt.expected)
		})
	}
}

func TestAppCPUFromCpuinfo(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		packageName string
		expected    *float64
	}{
		{"target present", cpuinfoOutput, "com.example.demoapp", floatPtr(41.0)},
		{"target absent", cpuinfoOutput, "com.example.missing", nil},
		{"empty package", cpuinfoOutput, "", nil},
		{"empty text", "", "com.example.demoapp", nil},
		{
			"first matching line wins",
			"3% 10/com.example.demoapp: a\n9% 11/com.example.demoapp: b",
			"com.example.demoapp",
			floatPtr(3.0),
		},
		{
			"line without percent sign skipped",
			"4521 com.example.demoapp running\n7.5% 4521/com.example.demoapp",
			"com.example.demoapp",
			floatPtr(7.5),
		},
		{
			// A matching line with an unparsable percent token settles the
			// result as absent; later lines are not consulted.
			"malformed token stops the scan",
			"x% 10/com.example.demoapp\n7.5% 11/com.example.demoapp",
			"com.example.demoapp",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppCPUFromCpuinfo(tt.text, tt.packageName)
			assertFloatPtr(t, got, tt.expected)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }

func assertFloatPtr(t *testing.T, got, want *float64) {
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
	if math.Abs(*got-*want) > 1e-9 {
		t.Fatalf("got %v, want %v", *got, *want)
	}
}
