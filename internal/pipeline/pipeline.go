package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/crimeetl/internal/cache"
	"github.com/ppiankov/crimeetl/internal/dimension"
	"github.com/ppiankov/crimeetl/internal/model"
	"github.com/ppiankov/crimeetl/internal/relate"
	"github.com/ppiankov/crimeetl/internal/sink"
	"github.com/ppiankov/crimeetl/internal/source"
	"github.com/ppiankov/crimeetl/internal/unify"
	"github.com/ppiankov/crimeetl/internal/worker"
)

// Pipeline orchestrates the complete ETL run
type Pipeline struct {
	reader source.Reader
	sink   sink.Sink
	config *model.Config
}

// New creates a pipeline reading through reader and emitting to out
func New(cfg *model.Config, reader source.Reader, out sink.Sink) *Pipeline {
	return &Pipeline{
		reader: reader,
		sink:   out,
		config: cfg,
	}
}

// NewFromConfig wires the file reader and the configured sink
func NewFromConfig(cfg *model.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out, err := sink.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, source.NewFileReader(cfg.Input.Dir), out), nil
}

// Run reads, cleans, models and emits the data. Every table is built and
// verified before the sink is called, so a failed run emits nothing.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	tables, report, err := p.Build(ctx)
	if err != nil {
		return report, err
	}

	// 5. Emit
	if err := p.sink.Write(ctx, tables); err != nil {
		return report, fmt.Errorf("emit: %w", err)
	}

	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	slog.Info("run complete", "tables", len(tables), "records", report.Unify.Records, "elapsed", report.Elapsed)
	return report, nil
}

// Build runs every stage up to emission and returns the tables in
// model.TableOrder.
func (p *Pipeline) Build(ctx context.Context) ([]*model.Table, *Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	// 1. Resolve partitions
	partitions, err := p.partitions()
	if err != nil {
		return nil, report, fmt.Errorf("resolve partitions: %w", err)
	}
	report.Partitions = partitions

	// 2. Read
	parts, err := worker.NewBatchReader(p.reader, p.config.Concurrency.Workers).ReadAll(ctx, partitions)
	if err != nil {
		return nil, report, err
	}

	// 3. Unify
	var dateCache cache.Cache = cache.Nop{}
	if p.config.Cache.Enabled {
		dateCache = cache.NewMemoryCache(0, 0)
	}
	dates := unify.NewDateParser(dateCache)

	set, stats, err := unify.New(dates).Unify(parts)
	if err != nil {
		return nil, report, fmt.Errorf("unify: %w", err)
	}
	report.Unify = stats
	report.DatesCached = dates.Cached()

	// 4. Model
	crime := dimension.Crime(set)
	specs := dimension.All()
	dims := make([]*model.Table, len(specs))
	bridges := make([]*model.Table, len(specs))
	bridgeStats := make([]*relate.Stats, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dim, err := dimension.Build(spec, set)
			if err != nil {
				return fmt.Errorf("dimension %s: %w", spec.Table, err)
			}
			bridge, bs, err := relate.Build(set, dim, crime)
			if err != nil {
				return fmt.Errorf("bridge %s: %w", spec.Bridge, err)
			}
			dims[i] = dim.Table()
			bridges[i] = bridge
			bridgeStats[i] = bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	byName := map[string]*model.Table{crime.Name: crime}
	for i := range specs {
		byName[dims[i].Name] = dims[i]
		byName[bridges[i].Name] = bridges[i]
	}
	tables := make([]*model.Table, 0, len(model.TableOrder))
	for _, name := range model.TableOrder {
		t, ok := byName[name]
		if !ok {
			return nil, report, fmt.Errorf("table %s was not built", name)
		}
		tables = append(tables, t)
	}

	report.Bridges = bridgeStats
	for _, t := range tables {
		report.Tables = append(report.Tables, TableCount{Table: t.Name, Rows: t.Len()})
	}

	return tables, report, nil
}

func (p *Pipeline) partitions() ([]string, error) {
	in := p.config.Input
	if in.Glob != "" {
		return source.Discover(in.Dir, in.Glob)
	}
	if len(in.Partitions) == 0 {
		return nil, model.ErrNoPartitions
	}
	out := make([]string, len(in.Partitions))
	copy(out, in.Partitions)
	return out, nil
}
