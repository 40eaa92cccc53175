package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vearne/reasm/biz"
	"github.com/vearne/reasm/config"
	"github.com/vearne/reasm/consts"
	"github.com/vearne/reasm/reassembly"
	slog "github.com/vearne/simplelog"
)

const banner string = `
    ____  ___________   _____ __  ___
   / __ \/ ____/   |  / ___//  |/  /
  / /_/ / __/ / /| |  \__ \/ /|_/ /
 / _, _/ /___/ ___ |___/ / /  / /
/_/ |_/_____/_/  |_/____/_/  /_/
`

var settings config.AppSettings
var version bool

func init() {
	flag.BoolVar(&version, "version", false,
		"print version")

	flag.DurationVar(&settings.ExitAfter, "exit-after", 0, "exit after specified duration")

	// #################### input ######################
	flag.Var(&config.MultiStringOption{Params: &settings.InputFileDir}, "input-file-directory",
		`Replay captured packet records from a directory:
                reasm --input-file-directory="/tmp/mycapture" --output-stdout`)

	flag.IntVar(&settings.InputFileReadDepth, "input-file-read-depth", 100, "")

	flag.BoolVar(&settings.InputSimulate, "input-simulate", false,
		`Generate packets with a simulated unreliable transport:
                reasm --input-simulate --output-stdout`)

	flag.Int64Var(&settings.SimulateSeed, "input-simulate-seed", 0,
		"random seed for reproducible runs, 0 picks one from the clock")

	flag.IntVar(&settings.SimulateTotalPackets, "input-simulate-total-packets", 1000, "")

	flag.IntVar(&settings.SimulateReorderWindow, "input-simulate-reorder-window", 10,
		"max positions a packet can be delayed")

	flag.Float64Var(&settings.SimulateDuplicateProb, "input-simulate-duplicate-prob", 0.05, "")
	flag.Float64Var(&settings.SimulateLossProb, "input-simulate-loss-prob", 0.02, "")
	flag.Float64Var(&settings.SimulateCorruptionProb, "input-simulate-corruption-prob", 0.03, "")
	flag.Float64Var(&settings.SimulateTerminationProb, "input-simulate-termination-prob", 0.001,
		"per-packet probability that the source terminates early")

	flag.Var(&settings.SimulatePayloadSize, "input-simulate-payload-size",
		"payload size per packet, accepts data units, e.g. 1kb")

	flag.DurationVar(&settings.SimulateRetransmitRTT, "input-simulate-retransmit-rtt",
		200*time.Millisecond, "delay before a retransmitted packet is re-queued")

	// #################### output ######################
	flag.BoolVar(&settings.OutputStdout, "output-stdout", false,
		"Just prints reassembled records to console")

	flag.Var(&config.MultiStringOption{Params: &settings.OutputFileDir},
		"output-file-directory",
		`Write reassembled records to a rotating log:
                reasm --input-simulate --output-file-directory="/tmp/mystream"`)

	flag.IntVar(&settings.OutputFileMaxSize, "output-file-max-size", 500,
		"MaxSize is the maximum size in megabytes of the log file before it gets rotated.")

	flag.IntVar(&settings.OutputFileMaxBackups, "output-file-max-backups", 10,
		"MaxBackups is the maximum number of old log files to retain.")

	flag.IntVar(&settings.OutputFileMaxAge, "output-file-max-age", 30,
		`MaxAge is the maximum number of days to retain old log files
				based on the timestamp encoded in their filename`)

	flag.Var(&config.MultiStringOption{Params: &settings.OutputKafkaBroker},
		"output-kafka-broker",
		`reasm --input-simulate --output-kafka-broker="192.168.2.100:9092"`)

	flag.StringVar(&settings.OutputKafkaTopic, "output-kafka-topic",
		"reasm-stream", "")

	// #################### reassembly ######################
	flag.IntVar(&settings.BufferCapacity, "buffer-capacity", reassembly.DefaultCapacity,
		"max out-of-order packets buffered per stream")

	flag.Float64Var(&settings.GapThresholdFraction, "gap-threshold-fraction",
		reassembly.DefaultThresholdFraction,
		"buffer occupancy fraction at which missing ranges are signaled")

	flag.Uint64Var(&settings.FirstSequence, "first-sequence", reassembly.DefaultFirstSequence,
		"first expected sequence number of each stream")

	flag.IntVar(&settings.SinkQueueSize, "sink-queue-size", 100,
		"depth of the queue decoupling reassembly from slow outputs")

	// #################### filter ######################
	flag.Uint64Var(&settings.IncludeSeqMin, "include-seq-min", 0, "")
	flag.Uint64Var(&settings.IncludeSeqMax, "include-seq-max", 0,
		"only packets with include-seq-min <= seq <= include-seq-max pass, 0 means unbounded")

	flag.Var(&settings.MaxPayloadSize, "filter-max-payload-size",
		"drop packets with larger payloads, accepts data units, e.g. 64kb")

	// #################### other ######################
	flag.IntVar(&settings.RateLimitQPS, "rate-limit-qps", 0,
		"max packets per second fed into reassembly, 0 disables the limiter")

	flag.StringVar(&settings.Codec, "codec", "simple", "")
}

func main() {
	fmt.Print(banner)

	adjustLogLevel()

	flag.Parse()
	if version {
		fmt.Println("service: reasm")
		fmt.Println("Version", consts.Version)
		fmt.Println("BuildTime", consts.BuildTime)
		fmt.Println("GitTag", consts.GitTag)
		return
	}

	printSettings(&settings)

	filterChain, err := biz.NewFilterChain(&settings)
	if err != nil {
		slog.Fatal("create FilterChain error:%v", err)
	}
	emitter := biz.NewEmitter(&settings, filterChain, biz.NewRateLimit(&settings))
	plugins := biz.NewPlugins(&settings)

	slog.Info("plugins:%v", plugins)

	// Start only spawns the per-stream goroutines, so by the time the
	// signal loop runs the emitter already owns its plugins and Close
	// is safe.
	emitter.Start(plugins)

	closeCh := make(chan int)
	if settings.ExitAfter > 0 {
		slog.Info("Running reasm for a duration of %s\n", settings.ExitAfter)

		time.AfterFunc(settings.ExitAfter, func() {
			slog.Info("run timeout %s\n", settings.ExitAfter)
			close(closeCh)
		})
	}
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	exit := 0
	select {
	case <-c:
		exit = 1
	case <-closeCh:
		exit = 0
	}
	emitter.Close()
	os.Exit(exit)
}

func printSettings(settings *config.AppSettings) {
	slog.Info("input-file-directory, %v", settings.InputFileDir)
	slog.Info("input-simulate, %v", settings.InputSimulate)
	if settings.InputSimulate {
		slog.Info("input-simulate-seed, %v", settings.SimulateSeed)
		slog.Info("input-simulate-total-packets, %v", settings.SimulateTotalPackets)
		slog.Info("input-simulate-reorder-window, %v", settings.SimulateReorderWindow)
	}

	slog.Info("output-stdout, %v", settings.OutputStdout)
	slog.Info("output-file-directory, %v", settings.OutputFileDir)
	slog.Info("output-kafka-broker, %v", settings.OutputKafkaBroker)

	slog.Info("buffer-capacity, %v", settings.BufferCapacity)
	slog.Info("gap-threshold-fraction, %v", settings.GapThresholdFraction)
	slog.Info("first-sequence, %v", settings.FirstSequence)
	slog.Info("codec, %v", settings.Codec)
}

func adjustLogLevel() {
	logLevel := os.Getenv("SIMPLE_LOG_LEVEL")
	if len(logLevel) > 0 {
		return
	}
	slog.SetLevel(slog.InfoLevel)
}
