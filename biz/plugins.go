package biz

import (
	"fmt"
	"reflect"

	"github.com/vearne/reasm/config"
	"github.com/vearne/reasm/plugin"
	slog "github.com/vearne/simplelog"
)

// InOutPlugins struct for holding references to plugins
type InOutPlugins struct {
	Inputs  []PluginReader
	Outputs []PluginWriter
	All     []interface{}
}

// NewPlugins specify and initialize all available plugins
func NewPlugins(settings *config.AppSettings) *InOutPlugins {
	plugins := new(InOutPlugins)

	// ----------input----------
	for _, path := range settings.InputFileDir {
		if err := plugin.IsValidDir(path); err != nil {
			slog.Fatal("%v", err)
		}
		slog.Debug("NewFileDirInput, path:%v", path)
		plugins.registerPlugin(plugin.NewFileDirInput, settings.Codec, path, settings.InputFileReadDepth)
	}

	if settings.InputSimulate {
		conf := plugin.SimulateConfig{
			Seed:            settings.SimulateSeed,
			TotalPackets:    settings.SimulateTotalPackets,
			ReorderWindow:   settings.SimulateReorderWindow,
			DuplicateProb:   settings.SimulateDuplicateProb,
			LossProb:        settings.SimulateLossProb,
			CorruptionProb:  settings.SimulateCorruptionProb,
			TerminationProb: settings.SimulateTerminationProb,
			PayloadSize:     int(settings.SimulatePayloadSize),
			RetransmitRTT:   settings.SimulateRetransmitRTT,
		}
		plugins.registerPlugin(plugin.NewSimulateInput, conf)
	}

	// ----------output----------
	if settings.OutputStdout {
		slog.Debug("NewStdOutput")
		plugins.registerPlugin(plugin.NewStdOutput, settings.Codec)
	}

	for _, path := range settings.OutputFileDir {
		if err := plugin.IsValidDir(path); err != nil {
			slog.Fatal("%v", err)
		}
		cf := &plugin.FileDirOutputConfig{
			MaxSize:    settings.OutputFileMaxSize,
			MaxBackups: settings.OutputFileMaxBackups,
			MaxAge:     settings.OutputFileMaxAge,
		}
		plugins.registerPlugin(plugin.NewFileDirOutput, settings.Codec, path, cf)
	}

	if len(settings.OutputKafkaBroker) > 0 {
		out, err := plugin.NewKafkaOutput(settings.Codec, settings.OutputKafkaBroker, settings.OutputKafkaTopic)
		if err != nil {
			slog.Fatal("NewKafkaOutput error:%v", err)
		}
		plugins.registerPlugin(func() *plugin.KafkaOutput { return out })
	}

	return plugins
}

// Automatically detects type of plugin and initialize it
func (plugins *InOutPlugins) registerPlugin(constructor interface{}, options ...interface{}) {

	vc := reflect.ValueOf(constructor)

	// Pre-processing options to make it work with reflect
	vo := []reflect.Value{}
	for _, oi := range options {
		vo = append(vo, reflect.ValueOf(oi))
	}

	// Calling our constructor with list of given options
	p := vc.Call(vo)[0].Interface()

	if r, ok := p.(PluginReader); ok {
		plugins.Inputs = append(plugins.Inputs, r)
	}

	if w, ok := p.(PluginWriter); ok {
		plugins.Outputs = append(plugins.Outputs, w)
	}
	plugins.All = append(plugins.All, p)
}

func (plugins *InOutPlugins) String() string {
	return fmt.Sprintf("#####  len(Inputs):%d, len(Outputs):%d, len(All):%d   #####",
		len(plugins.Inputs), len(plugins.Outputs), len(plugins.All))
}
