// Package testutil contains helpers for tests.
package testutil

import (
	"os"
	"strconv"
	"time"
)

// TimeScaleEnvName is the name of the environment variable used by Scaled.
const TimeScaleEnvName = "SAGE_TEST_TIME_SCALE"

// Scaled returns d scaled by $SAGE_TEST_TIME_SCALE. If the environment
// variable does not exist or contains an invalid value, the scale defaults
// to 1. Use it for timing-sensitive tests that may need more headroom on
// slow machines.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * getTestTimeScale())
}

func getTestTimeScale() float64 {
	env := os.Getenv(TimeScaleEnvName)
	if env == "" {
		return 1
	}
	scale, err := strconv.ParseFloat(env, 64)
	if err != nil || scale <= 0 {
		return 1
	}
	return scale
}
