package probe

import (
	"math"

	"github.com/tkjaer/tcpping/internal/shared"
)

// Statistics accumulates attempt outcomes for one run
type Statistics struct {
	Sent      uint
	Received  uint
	Latencies []float64 // Successful connect latencies in milliseconds, in attempt order
}

// Record adds one attempt to the statistics
func (s *Statistics) Record(a shared.Attempt) {
	s.Sent++
	if a.Success() {
		s.Received++
		s.Latencies = append(s.Latencies, a.LatencyMs())
	}
}

// Summary computes the final statistics. It returns false when no attempt
// succeeded, in which case there is nothing to report.
func (s *Statistics) Summary(host string) (shared.Summary, bool) {
	if len(s.Latencies) == 0 {
		return shared.Summary{}, false
	}

	minRTT, maxRTT, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, l := range s.Latencies {
		minRTT = math.Min(minRTT, l)
		maxRTT = math.Max(maxRTT, l)
		sum += l
	}
	mean := sum / float64(len(s.Latencies))

	return shared.Summary{
		Host:     host,
		Sent:     s.Sent,
		Received: s.Received,
		LossPct:  calculateLossPct(s.Sent-s.Received, s.Received),
		Min:      minRTT,
		Avg:      mean,
		Max:      maxRTT,
		StdDev:   calculateStdDev(s.Latencies, mean),
	}, true
}

// calculateLossPct returns the share of lost attempts in percent
func calculateLossPct(lost, received uint) float64 {
	total := lost + received
	if total == 0 {
		return 0
	}
	return float64(lost) / float64(total) * 100
}

// calculateStdDev returns the population standard deviation of samples around mean
func calculateStdDev(samples []float64, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, x := range samples {
		d := x - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
