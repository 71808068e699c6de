package parser

import (
	"strconv"
	"strings"
)

// minFramesForJankRate guards against a near-static UI: with only a handful
// of rendered frames a single janky frame produces a spurious rate.
const minFramesForJankRate = 10

// maxPlausibleFPS clamps FPS computed from the frame timeline; corrupted or
// out-of-order vsync timestamps otherwise produce nonsensical outliers.
const maxPlausibleFPS = 120

// profileDataMarker delimits the per-frame timeline section of a
// dumpsys gfxinfo framestats dump.
const profileDataMarker = "---PROFILEDATA---"

// FrameAggregate holds the cumulative frame counters of a gfxinfo dump.
type FrameAggregate struct {
	TotalFrames *int
	JankyFrames *int
	JankRate    *float64
}

// FrameStats reads "Total frames rendered" and "Janky frames" from a gfxinfo
// dump. The jank rate is derived only when at least minFramesForJankRate
// frames were rendered; below that the rate is omitted rather than guessed.
func FrameStats(text string) FrameAggregate {
	var agg FrameAggregate

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.Contains(line, "Total frames rendered:"):
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				if value, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
					agg.TotalFrames = &value
				}
			}
		case strings.Contains(line, "Janky frames:"):
			// Format: "Janky frames: 123 (1.00%)"
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				fields := strings.Fields(parts[1])
				if len(fields) > 0 {
					if value, err := strconv.Atoi(fields[0]); err == nil {
						agg.JankyFrames = &value
					}
				}
			}
		}
	}

	if agg.TotalFrames != nil && *agg.TotalFrames >= minFramesForJankRate && agg.JankyFrames != nil {
		rate := float64(*agg.JankyFrames) / float64(*agg.TotalFrames) * 100
		agg.JankRate = &rate
	}

	return agg
}

// FPSFromFrameStats derives FPS from the per-frame timeline of a framestats
// dump. Rows after the profile-data marker are comma-separated; the second
// field is the intended-vsync timestamp in nanoseconds. Requires at least
// two valid timestamps and a positive span; the result is clamped to
// maxPlausibleFPS.
func FPSFromFrameStats(text string) *float64 {
	var frameTimes []int64
	inStats := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if strings.Contains(line, profileDataMarker) {
			inStats = true
			continue
		}
		if !inStats || line == "" || strings.HasPrefix(line, "Flags") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}

		intendedVsync, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || intendedVsync <= 0 {
			continue
		}
		frameTimes = append(frameTimes, intendedVsync)
	}

	if len(frameTimes) < 2 {
		return nil
	}

	durationNs := frameTimes[len(frameTimes)-1] - frameTimes[0]
	if durationNs <= 0 {
		return nil
	}

	fps := float64(len(frameTimes)-1) / (float64(durationNs) / 1e9)
	if fps > maxPlausibleFPS {
		fps = maxPlausibleFPS
	}

	return &fps
}
