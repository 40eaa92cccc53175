// Package config holds the application settings and the command line
// option helpers of reasm.
package config

import (
	"fmt"
	"time"

	"github.com/vearne/reasm/size"
)

// MultiStringOption is a string command line parameter that may be
// given several times. All values end up in the same slice, e.g.
// --input-file-directory="/tmp/a" --input-file-directory="/tmp/b"
type MultiStringOption struct {
	Params *[]string
}

func (h *MultiStringOption) String() string {
	if h.Params == nil {
		return ""
	}
	return fmt.Sprint(*h.Params)
}

// Set gets called multiple times for each flag with same name
func (h *MultiStringOption) Set(value string) error {
	if h.Params == nil {
		return nil
	}

	*h.Params = append(*h.Params, value)
	return nil
}

// AppSettings holds every command line option of reasm: the packet
// inputs, the ordered sinks, the reassembly tuning knobs, filters and
// the rate limiter.
type AppSettings struct {
	ExitAfter time.Duration `json:"exit-after"`

	// ######################## input #######################
	InputFileDir       []string `json:"input-file-directory"`
	InputFileReadDepth int      `json:"input-file-read-depth"`

	// --- simulated transport ---
	InputSimulate           bool      `json:"input-simulate"`
	SimulateSeed            int64     `json:"input-simulate-seed"`
	SimulateTotalPackets    int       `json:"input-simulate-total-packets"`
	SimulateReorderWindow   int       `json:"input-simulate-reorder-window"`
	SimulateDuplicateProb   float64   `json:"input-simulate-duplicate-prob"`
	SimulateLossProb        float64   `json:"input-simulate-loss-prob"`
	SimulateCorruptionProb  float64   `json:"input-simulate-corruption-prob"`
	SimulateTerminationProb float64   `json:"input-simulate-termination-prob"`
	SimulatePayloadSize     size.Size `json:"input-simulate-payload-size"`
	SimulateRetransmitRTT   time.Duration

	// ######################## output ########################
	OutputStdout bool `json:"output-stdout"`

	// --- output file directory ---
	OutputFileDir []string `json:"output-file-directory"`
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated.
	OutputFileMaxSize int `json:"output-file-max-size"`
	// MaxBackups is the maximum number of old log files to retain.
	OutputFileMaxBackups int `json:"output-file-max-backups"`
	// MaxAge is the maximum number of days to retain old log files based on the
	// timestamp encoded in their filename.
	OutputFileMaxAge int `json:"output-file-max-age"`

	// --- output kafka ---
	OutputKafkaBroker []string `json:"output-kafka-broker"`
	OutputKafkaTopic  string   `json:"output-kafka-topic"`

	// ######################## reassembly ########################
	BufferCapacity       int     `json:"buffer-capacity"`
	GapThresholdFraction float64 `json:"gap-threshold-fraction"`
	FirstSequence        uint64  `json:"first-sequence"`
	// depth of the queue decoupling Submit from slow sinks
	SinkQueueSize int `json:"sink-queue-size"`

	// --- filter ---
	IncludeSeqMin  uint64    `json:"include-seq-min"`
	IncludeSeqMax  uint64    `json:"include-seq-max"`
	MaxPayloadSize size.Size `json:"filter-max-payload-size"`

	// --- rate limit ---
	// Packets per second
	RateLimitQPS int `json:"rate-limit-qps"`

	// --- other ---
	Codec string `json:"codec"`
}
