package parser

import "testing"

const gfxinfoDump = `Applications Graphics Acceleration Info:
Uptime: 88122451 Realtime: 171244812

** Graphics info for pid 4521 [com.example.demoapp] **

Stats since: 171201034543211ns
Total frames rendered: 120
Janky frames: 3 (2.50%)
50th percentile: 7ms
90th percentile: 13ms
95th percentile: 18ms
99th percentile: 29ms

---PROFILEDATA---
Flags,IntendedVsync,Vsync,OldestInputEvent,NewestInputEvent,HandleInputStart
0,1000000000,1000000000,9223372036854775807,0,1000210000
0,1100000000,1100000000,9223372036854775807,0,1100190000
0,1200000000,1200000000,9223372036854775807,0,1200230000
0,1300000000,1300000000,9223372036854775807,0,1300180000
0,1400000000,1400000000,9223372036854775807,0,1400205000
---PROFILEDATA---`

func TestFrameStats(t *testing.T) {
	t.Run("full dump", func(t *testing.T) {
		agg := FrameStats(gfxinfoDump)
		assertIntPtr(t, agg.TotalFrames, intPtr(120))
		assertIntPtr(t, agg.JankyFrames, intPtr(3))
		assertFloatPtr(t, agg.JankRate, floatPtr(2.5))
	})

	t.Run("too few frames omits rate", func(t *testing.T) {
		agg := FrameStats("Total frames rendered: 9\nJanky frames: 5 (55.56%)")
		assertIntPtr(t, agg.TotalFrames, intPtr(9))
		assertIntPtr(t, agg.JankyFrames, intPtr(5))
		assertFloatPtr(t, agg.JankRate, nil)
	})

	t.Run("threshold frame count yields rate", func(t *testing.T) {
		agg := FrameStats("Total frames rendered: 10\nJanky frames: 1 (10.00%)")
		assertFloatPtr(t, agg.JankRate, floatPtr(10.0))
	})

	t.Run("janky counter missing", func(t *testing.T) {
		agg := FrameStats("Total frames rendered: 500")
		assertIntPtr(t, agg.TotalFrames, intPtr(500))
		assertIntPtr(t, agg.JankyFrames, nil)
		assertFloatPtr(t, agg.JankRate, nil)
	})

	t.Run("empty text", func(t *testing.T) {
		agg := FrameStats("")
		assertIntPtr(t, agg.TotalFrames, nil)
		assertIntPtr(t, agg.JankyFrames, nil)
		assertFloatPtr(t, agg.JankRate, nil)
	})
}

func TestFPSFromFrameStats(t *testing.T) {
	t.Run("full dump", func(t *testing.T) {
		// Five frames over 0.4s of intended-vsync span.
		got := FPSFromFrameStats(gfxinfoDump)
		assertFloatPtr(t, got, floatPtr(10.0))
	})

	t.Run("clamped to plausible maximum", func(t *testing.T) {
		text := "---PROFILEDATA---\n0,1000,1000\n0,2000,2000\n0,3000,3000"
		got := FPSFromFrameStats(text)
		assertFloatPtr(t, got, floatPtr(120.0))
	})

	t.Run("single timestamp", func(t *testing.T) {
		text := "---PROFILEDATA---\n0,1000000000,1000000000"
		assertFloatPtr(t, FPSFromFrameStats(text), nil)
	})

	t.Run("non positive span", func(t *testing.T) {
		text := "---PROFILEDATA---\n0,2000000000,0\n0,1000000000,0"
		assertFloatPtr(t, FPSFromFrameStats(text), nil)
	})

	t.Run("zero timestamps skipped", func(t *testing.T) {
		text := "---PROFILEDATA---\n0,0,0\n0,1000000000,0"
		assertFloatPtr(t, FPSFromFrameStats(text), nil)
	})

	t.Run("no marker", func(t *testing.T) {
		text := "0,1000000000,0\n0,2000000000,0"
		assertFloatPtr(t, FPSFromFrameStats(text), nil)
	})

	t.Run("empty text", func(t *testing.T) {
		assertFloatPtr(t, FPSFromFrameStats(""), nil)
	})
}
