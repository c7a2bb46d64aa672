package output

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/tkjaer/tcpping/internal/shared"
)

type startRecord struct {
	Type      string        `json:"type"`
	Target    shared.Target `json:"target"`
	Timestamp time.Time     `json:"timestamp"`
}

type attemptRecord struct {
	Type      string    `json:"type"`
	Seq       uint      `json:"tcp_seq"`
	IP        string    `json:"ip"`
	Port      uint16    `json:"port"`
	Success   bool      `json:"success"`
	RTT       float64   `json:"rtt_ms"` // Connect latency in milliseconds (0 on failure)
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type summaryRecord struct {
	Type string `json:"type"`
	shared.Summary
	Timestamp time.Time `json:"timestamp"`
}

// JSONOutput writes one JSON object per line to a file or stdout
type JSONOutput struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	toStdout bool
}

func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		// Output to stdout
		return &JSONOutput{
			file:     os.Stdout,
			enc:      json.NewEncoder(os.Stdout),
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		file:     f,
		enc:      json.NewEncoder(f),
		toStdout: false,
	}, nil
}

func (j *JSONOutput) Start(target shared.Target) {
	j.encode(startRecord{
		Type:      "start",
		Target:    target,
		Timestamp: time.Now(),
	})
}

func (j *JSONOutput) CompleteAttempt(target shared.Target, attempt shared.Attempt) {
	j.encode(attemptRecord{
		Type:      "attempt",
		Seq:       attempt.Seq,
		IP:        target.Addr.String(),
		Port:      target.Port,
		Success:   attempt.Success(),
		RTT:       attempt.LatencyMs(),
		Error:     shared.DescribeError(attempt.Err),
		Timestamp: attempt.Timestamp,
	})
}

func (j *JSONOutput) CompleteRun(summary shared.Summary) {
	j.encode(summaryRecord{
		Type:      "summary",
		Summary:   summary,
		Timestamp: time.Now(),
	})
}

func (j *JSONOutput) encode(v any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(v)
}

func (j *JSONOutput) Close() error {
	if j.toStdout {
		return nil
	}
	return j.file.Close()
}
