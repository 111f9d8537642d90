package pipeline

// DefaultTargetRateHz is the default frame sampling rate: one frame per second.
const DefaultTargetRateHz = 1.0

// SamplingInterval is the number of source frames between two selected
// frames: floor(sourceRate / targetRate), but never less than 1.
// A source rate of 0 (container didn't report one) degrades to processing
// every frame, rather than dividing by zero.
func SamplingInterval(sourceRate, targetRate float64) int {
	if sourceRate <= 0 || targetRate <= 0 {
		return 1
	}
	interval := int(sourceRate / targetRate)
	if interval < 1 {
		interval = 1
	}
	return interval
}

// Selected reports whether the frame at the 0-based index is chosen for
// processing.
func Selected(frameIndex, interval int) bool {
	return frameIndex%interval == 0
}
