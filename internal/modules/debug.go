package modules

import (
	"context"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/internal/persistence"
	"github.com/andrej220/modexec/pkg/cloudinit"
	"github.com/andrej220/modexec/pkg/value"
)

const DebugName = "debug"

// Debug logs the configuration it receives and, when "output" is set,
// writes it there as indented JSON.
type Debug struct{}

func (Debug) LoggerName() string { return "cc_debug" }

func (Debug) Handle(_ context.Context, name string, cfg value.Value, cloud *cloudinit.Cloud, log lg.Logger, _ []string) error {
	verbose := true
	if v, ok := cfg.Get("verbose"); ok {
		b, isBool := v.Bool()
		if !isBool {
			log.Warn("ignoring non-boolean verbose setting", lg.String("module", name), lg.String("verbose", show(v)))
		} else {
			verbose = b
		}
	}
	if !verbose {
		log.Debug("skipping module, verbose is off", lg.String("module", name))
		return nil
	}

	rendered, err := value.PythonJSON(cfg)
	if err != nil {
		return err
	}
	log.Info("config", lg.String("module", name), lg.String("cfg", rendered))
	if cloud != nil && cloud.Datasource != nil {
		ds := cloud.Datasource
		hostname, err := ds.Hostname()
		if err != nil {
			log.Warn("unable to resolve hostname", lg.Err(err))
		}
		log.Info("datasource",
			lg.String("name", ds.Name()),
			lg.String("instance_id", ds.InstanceID()),
			lg.String("hostname", hostname),
			lg.Any("metadata", ds.Metadata()))
	}

	out, ok := cfg.Get("output")
	if !ok {
		return nil
	}
	path, isStr := out.Str()
	if !isStr || path == "" {
		log.Warn("ignoring invalid output setting", lg.String("output", show(out)))
		return nil
	}
	return persistence.WriteJSON(cfg, path)
}
