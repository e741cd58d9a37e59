package engine

import (
	"context"
	"fmt"

	"github.com/dhatim/csvsed/internal/config"
	"github.com/dhatim/csvsed/internal/sed"
	"github.com/dhatim/csvsed/internal/telemetry"
	"github.com/dhatim/csvsed/sink"
	sinkfile "github.com/dhatim/csvsed/sink/csvfile"
	sinkkafka "github.com/dhatim/csvsed/sink/kafka"
	"github.com/dhatim/csvsed/source"
	srcfile "github.com/dhatim/csvsed/source/csvfile"
	srckafka "github.com/dhatim/csvsed/source/kafka"
)

// Bootstrap builds the source, resolves the job's modifiers into a filter
// (consuming the header row when configured), attaches the sink, and exposes
// metrics when enabled.
func Bootstrap(ctx context.Context, job config.Job, rt config.Runtime) (*Engine, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	opts := sed.Options{
		ExecTimeout:    rt.ExecTimeout(),
		ExecContinuous: rt.Exec.Continuous,
	}

	src, err := buildSource(job.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	filter, err := sed.NewFilter(ctx, src,
		sed.ModifierSet{ByColumn: job.Columns, Ordered: job.Modifiers},
		job.Header, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	out, err := buildSink(job.Sink)
	if err != nil {
		_ = src.Close()
		_ = filter.Close()
		return nil, fmt.Errorf("sink: %w", err)
	}

	if rt.MetricsPort > 0 {
		telemetry.Expose(rt.MetricsPort)
	}

	return &Engine{
		src:       src,
		filter:    filter,
		out:       out,
		hasHeader: job.Header,
	}, nil
}

func buildSource(ep config.Endpoint) (source.Adapter, error) {
	ad, err := source.New(ep.Kind)
	if err != nil {
		return nil, err
	}
	var cfg any
	switch ep.Kind {
	case "file":
		cfg = srcfile.Config{Path: ep.Path}
	case "kafka":
		if cfg, err = srckafka.LoadConfig(ep.Config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no config block for source %q", ep.Kind)
	}
	if err := ad.Configure(cfg); err != nil {
		return nil, err
	}
	return ad, nil
}

func buildSink(ep config.Endpoint) (sink.Adapter, error) {
	ad, err := sink.New(ep.Kind)
	if err != nil {
		return nil, err
	}
	var cfg any
	switch ep.Kind {
	case "file":
		cfg = sinkfile.Config{Path: ep.Path}
	case "kafka":
		if cfg, err = sinkkafka.LoadConfig(ep.Config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no config block for sink %q", ep.Kind)
	}
	if err := ad.Configure(cfg); err != nil {
		return nil, err
	}
	return ad, nil
}
