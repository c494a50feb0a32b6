package core

import "sync"

// Weight of the newest sample in the smoothed frame-time average.
const smoothingFactor = 0.01

type MetricsState struct {
	SmoothedDT         float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

func MetricsUpdate(frame_elapsed_time float64) {
	// Exponential moving average keeps the overlay readout steady.
	metricsState.SmoothedDT = smoothingFactor*frame_elapsed_time + (1.0-smoothingFactor)*metricsState.SmoothedDT

	// Calculate Frames per second.
	metricsState.AccumulatedFrameMS += frame_elapsed_time * 1000.0
	if metricsState.AccumulatedFrameMS > 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	// Count all Frames.
	metricsState.Frames++
}

func MetricsFPS() float64 {
	return metricsState.FPS
}

// MetricsFrameTime returns the smoothed frame time in milliseconds.
func MetricsFrameTime() float64 {
	return metricsState.SmoothedDT * 1000.0
}

func MetricsFrame() (float64, float64) {
	return metricsState.FPS, MetricsFrameTime()
}
