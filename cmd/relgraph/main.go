// Command relgraph runs the relationship pipeline end to end: load a
// snapshot, build and filter the graph, settle a layout, optionally rank
// warm-introduction paths, and emit a JSON visualization document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/signalvc/relgraph/pkg/config"
	"github.com/signalvc/relgraph/pkg/dataset"
	"github.com/signalvc/relgraph/pkg/filter"
	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/intro"
	"github.com/signalvc/relgraph/pkg/layout"
	"github.com/signalvc/relgraph/pkg/logging"
	"github.com/signalvc/relgraph/pkg/metrics"
	"github.com/signalvc/relgraph/pkg/stream"
)

// Document is the exported visualization payload.
type Document struct {
	SnapshotID string                     `json:"snapshot_id"`
	Generated  time.Time                  `json:"generated"`
	Nodes      []*graph.Node              `json:"nodes"`
	Links      []graph.Link               `json:"links"`
	Positions  map[string]layout.Position `json:"positions,omitempty"`
	Paths      []intro.Path               `json:"paths,omitempty"`
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults apply when empty)")
		snapshot   = flag.String("snapshot", "", "Snapshot file path (overrides config dataset source)")
		outPath    = flag.String("out", "", "Output file (stdout when empty)")

		nodeType    = flag.String("node-type", filter.NodeTypeAll, "Node type filter: investor, firm, company, sector or all")
		minConns    = flag.Int("min-connections", 0, "Minimum connection count")
		sector      = flag.String("sector", "", "Sector filter")
		location    = flag.String("location", "", "Location filter")
		tierMin     = flag.Int("tier-min", graph.MinTier, "Minimum tier")
		tierMax     = flag.Int("tier-max", graph.MaxTier, "Maximum tier")
		linkTypes   = flag.String("link-types", "", "Comma-separated link types to keep (all when empty)")
		minStrength = flag.Float64("min-strength", 0, "Minimum link strength")

		noLayout = flag.Bool("no-layout", false, "Skip the layout simulation")
		seed     = flag.Int64("seed", 0, "Layout seed (overrides config when non-zero)")
		publish  = flag.String("publish", "", "Publish layout frames on this address (e.g. tcp://127.0.0.1:7780)")

		from  = flag.String("from", "", "Warm-intro source node ID")
		to    = flag.String("to", "", "Warm-intro target node ID")
		hops  = flag.Int("hops", 0, "Warm-intro hop budget (config default when 0)")
		paths = flag.Int("paths", 0, "Number of paths to rank (config default when 0)")
	)
	flag.Parse()

	logger := logging.DefaultLogger()
	if err := run(context.Background(), logger, pipelineArgs{
		configPath: *configPath,
		snapshot:   *snapshot,
		outPath:    *outPath,
		spec: filterSpec{
			nodeType:    *nodeType,
			minConns:    *minConns,
			sector:      *sector,
			location:    *location,
			tierMin:     *tierMin,
			tierMax:     *tierMax,
			linkTypes:   *linkTypes,
			minStrength: *minStrength,
		},
		noLayout: *noLayout,
		seed:     *seed,
		publish:  *publish,
		from:     *from,
		to:       *to,
		hops:     *hops,
		paths:    *paths,
	}); err != nil {
		logger.Error("pipeline failed", logging.Error(err))
		os.Exit(1)
	}
}

type filterSpec struct {
	nodeType    string
	minConns    int
	sector      string
	location    string
	tierMin     int
	tierMax     int
	linkTypes   string
	minStrength float64
}

type pipelineArgs struct {
	configPath string
	snapshot   string
	outPath    string
	spec       filterSpec
	noLayout   bool
	seed       int64
	publish    string
	from, to   string
	hops       int
	paths      int
}

func run(ctx context.Context, logger logging.Logger, args pipelineArgs) error {
	cfg := config.Default()
	if args.configPath != "" {
		var err error
		cfg, err = config.Load(args.configPath)
		if err != nil {
			return err
		}
	}
	if cfg.LogLevel != "" {
		if l, ok := logger.(interface{ SetLevel(logging.Level) }); ok {
			l.SetLevel(logging.ParseLevel(cfg.LogLevel))
		}
	}
	reg := metrics.DefaultRegistry()

	// Load.
	snap, err := loadSnapshot(ctx, cfg, args.snapshot, logger)
	if err != nil {
		return err
	}

	// Build.
	start := time.Now()
	g, err := graph.Build(snap.Nodes, snap.Links)
	if err != nil {
		reg.RecordGraphBuild("error", time.Since(start), 0, 0)
		return fmt.Errorf("build graph: %w", err)
	}
	reg.RecordGraphBuild("success", time.Since(start), g.NodeCount(), g.LinkCount())
	logger.Info("graph built",
		logging.SnapshotID(snap.ID),
		logging.Nodes(g.NodeCount()),
		logging.Links(g.LinkCount()))

	// Filter.
	spec, err := buildSpec(args.spec)
	if err != nil {
		return err
	}
	start = time.Now()
	g, err = filter.Apply(g, spec)
	if err != nil {
		reg.RecordFilterApply("error", time.Since(start), 0, 0)
		return fmt.Errorf("apply filter: %w", err)
	}
	reg.RecordFilterApply("success", time.Since(start), g.NodeCount(), g.LinkCount())

	doc := Document{
		SnapshotID: snap.ID,
		Generated:  time.Now().UTC(),
		Nodes:      g.Nodes(),
		Links:      g.Links(),
	}

	// Layout.
	if !args.noLayout {
		positions, err := runLayout(ctx, cfg, args, g, logger, reg)
		if err != nil {
			return err
		}
		doc.Positions = positions
	}

	// Warm-intro search.
	if args.from != "" || args.to != "" {
		if args.from == "" || args.to == "" {
			return fmt.Errorf("both -from and -to are required for a path search")
		}
		ranked, err := findPaths(cfg, args, g, logger, reg)
		if err != nil {
			return err
		}
		doc.Paths = ranked
	}

	return writeDocument(args.outPath, doc)
}

func loadSnapshot(ctx context.Context, cfg config.Config, override string, logger logging.Logger) (dataset.Snapshot, error) {
	var src dataset.Source
	switch {
	case override != "":
		src = dataset.NewFileSource(override, logger)
	case cfg.Dataset.Source == "file":
		src = dataset.NewFileSource(cfg.Dataset.File.Path, logger)
	case cfg.Dataset.Source == "postgres":
		pg, err := dataset.NewPGSource(ctx, dataset.PGOptions{
			DSN:            cfg.Dataset.Postgres.DSN,
			MaxConns:       cfg.Dataset.Postgres.MaxConns,
			MinConns:       cfg.Dataset.Postgres.MinConns,
			ConnectTimeout: cfg.Dataset.Postgres.ConnectTimeout,
		}, logger)
		if err != nil {
			return dataset.Snapshot{}, err
		}
		defer pg.Close()
		src = pg
	case cfg.Dataset.Source == "s3":
		s3src, err := dataset.NewS3Source(ctx, cfg.Dataset.S3.Bucket, cfg.Dataset.S3.Key, cfg.Dataset.S3.Region, logger)
		if err != nil {
			return dataset.Snapshot{}, err
		}
		src = s3src
	default:
		return dataset.Snapshot{}, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}

	reg := metrics.DefaultRegistry()
	start := time.Now()
	snap, err := src.Load(ctx)
	if err != nil {
		reg.RecordDatasetLoad(src.Name(), "error", time.Since(start), 0)
		return dataset.Snapshot{}, err
	}
	reg.RecordDatasetLoad(src.Name(), "success", time.Since(start), len(snap.Nodes)+len(snap.Links))
	return snap, nil
}

func buildSpec(fs filterSpec) (filter.Spec, error) {
	spec := filter.DefaultSpec()
	spec.NodeType = fs.nodeType
	spec.MinConnections = fs.minConns
	spec.Sector = fs.sector
	spec.Location = fs.location
	spec.Tiers = filter.TierRange{Min: fs.tierMin, Max: fs.tierMax}
	spec.MinStrength = fs.minStrength

	if fs.linkTypes != "" {
		kept := make(map[graph.LinkType]bool)
		for _, name := range strings.Split(fs.linkTypes, ",") {
			lt, err := graph.ParseLinkType(strings.TrimSpace(name))
			if err != nil {
				return filter.Spec{}, fmt.Errorf("-link-types: %w", err)
			}
			kept[lt] = true
		}
		spec.LinkTypes = kept
	}

	if err := spec.Validate(); err != nil {
		return filter.Spec{}, err
	}
	return spec, nil
}

func runLayout(ctx context.Context, cfg config.Config, args pipelineArgs, g *graph.Graph, logger logging.Logger, reg *metrics.Registry) (map[string]layout.Position, error) {
	lcfg := cfg.Layout
	if args.seed != 0 {
		lcfg.Seed = args.seed
	}

	publishAddr := args.publish
	if publishAddr == "" {
		publishAddr = cfg.Stream.PublishAddr
	}

	opts := []layout.Option{layout.WithLogger(logger)}
	if publishAddr != "" {
		bridge, err := stream.NewBridge(publishAddr, logger)
		if err != nil {
			return nil, err
		}
		defer bridge.Close()
		opts = append(opts, layout.WithTickObserver(bridge.PublishFrame))
	}

	sim, err := layout.New(g, lcfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure layout: %w", err)
	}

	start := time.Now()
	positions, err := sim.Run(ctx)
	if err != nil {
		reg.RecordLayoutRun("error", time.Since(start), sim.Ticks(), sim.Alpha(), g.NodeCount())
		return nil, fmt.Errorf("run layout: %w", err)
	}
	reg.RecordLayoutRun("success", time.Since(start), sim.Ticks(), sim.Alpha(), g.NodeCount())
	return positions, nil
}

func findPaths(cfg config.Config, args pipelineArgs, g *graph.Graph, logger logging.Logger, reg *metrics.Registry) ([]intro.Path, error) {
	mult, err := cfg.Intro.MultiplierTable()
	if err != nil {
		return nil, err
	}
	finder, err := intro.NewFinder(intro.WithMultipliers(mult), intro.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	opts := intro.Options{MaxHops: cfg.Intro.MaxHops, MaxPaths: cfg.Intro.MaxPaths}
	if args.hops > 0 {
		opts.MaxHops = args.hops
	}
	if args.paths > 0 {
		opts.MaxPaths = args.paths
	}

	start := time.Now()
	ranked, err := finder.Find(g, args.from, args.to, opts)
	if err != nil {
		reg.RecordIntroSearch("error", time.Since(start), 0, 0)
		return nil, fmt.Errorf("find paths: %w", err)
	}
	if len(ranked) == 0 {
		reg.RecordIntroSearch("not_found", time.Since(start), 0, 0)
		logger.Warn("no introduction path",
			logging.SourceID(args.from),
			logging.TargetID(args.to),
			logging.Hops(opts.MaxHops))
	} else {
		reg.RecordIntroSearch("found", time.Since(start), ranked[0].HopCount, ranked[0].TotalCost)
	}
	return ranked, nil
}

func writeDocument(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
