package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/logging"
)

// PGOptions carries pool settings for the relational investor export.
type PGOptions struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// PGSource loads the dataset from the relational export: investors joined
// with persons, firms and locations for nodes; the relationships table for
// links.
type PGSource struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPGSource opens a connection pool against the investor database and
// verifies it is reachable.
func NewPGSource(ctx context.Context, opts PGOptions, logger logging.Logger) (*PGSource, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	config, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.ConnectTimeout > 0 {
		config.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PGSource{pool: pool, logger: logger}, nil
}

// Name identifies the source kind.
func (s *PGSource) Name() string { return "postgres" }

// Ping checks database connectivity.
func (s *PGSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGSource) Close() error {
	s.pool.Close()
	return nil
}

const nodeQuery = `
SELECT i.slug,
       COALESCE(p.name, i.slug),
       i.node_type,
       i.tier,
       COALESCE(i.investment_count, 0),
       COALESCE(i.fund_size, 0),
       COALESCE(i.sector, ''),
       COALESCE(l.display_name, ''),
       COALESCE(f.name, '')
FROM investors i
LEFT JOIN persons p ON p.id = i.person_id
LEFT JOIN firms f ON f.id = i.firm_id
LEFT JOIN locations l ON l.id = i.location_id
ORDER BY i.slug`

const linkQuery = `
SELECT r.source_slug, r.target_slug, r.kind, r.strength
FROM relationships r
ORDER BY r.id`

// Load queries nodes and links into a fresh snapshot.
func (s *PGSource) Load(ctx context.Context) (Snapshot, error) {
	timer := logging.StartTimer(s.logger, "load snapshot from postgres")

	nodes, err := s.loadNodes(ctx)
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, err
	}
	links, err := s.loadLinks(ctx)
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, err
	}
	if len(nodes) == 0 {
		timer.EndError(ErrEmptySnapshot)
		return Snapshot{}, ErrEmptySnapshot
	}

	snap := Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Nodes:     nodes,
		Links:     links,
	}
	timer.End(
		logging.SnapshotID(snap.ID),
		logging.Nodes(len(snap.Nodes)),
		logging.Links(len(snap.Links)))
	return snap, nil
}

func (s *PGSource) loadNodes(ctx context.Context) ([]graph.Node, error) {
	rows, err := s.pool.Query(ctx, nodeQuery)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var (
			n        graph.Node
			nodeType string
		)
		if err := rows.Scan(&n.ID, &n.Name, &nodeType, &n.Tier,
			&n.InvestmentCount, &n.Value, &n.Group, &n.Location, &n.FirmName); err != nil {
			return nil, fmt.Errorf("scan node row: %w", err)
		}
		n.Type, err = graph.ParseNodeType(nodeType)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *PGSource) loadLinks(ctx context.Context) ([]graph.Link, error) {
	rows, err := s.pool.Query(ctx, linkQuery)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []graph.Link
	for rows.Next() {
		var (
			l    graph.Link
			kind string
		)
		if err := rows.Scan(&l.Source, &l.Target, &kind, &l.Strength); err != nil {
			return nil, fmt.Errorf("scan link row: %w", err)
		}
		l.Type, err = graph.ParseLinkType(kind)
		if err != nil {
			return nil, fmt.Errorf("link %s-%s: %w", l.Source, l.Target, err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
