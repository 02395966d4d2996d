package commands

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/lichao/pkg/lichao"
)

// Sentinel errors for the bench command.
var (
	ErrNonPositiveLines   = errors.New("line count must be positive")
	ErrNonPositiveQueries = errors.New("query count must be positive")
	ErrInvalidCountFormat = errors.New("count must be a number with an optional SI suffix, e.g. 200, 10k, 1M")
	ErrCountTooLarge      = errors.New("count too large to benchmark")
	ErrDomainTooWide      = errors.New("domain too wide to benchmark")
)

// Default workload sizes.
const (
	defaultBenchLines   = "100k"
	defaultBenchQueries = "100k"
	defaultBenchSeed    = 1
)

const (
	// maxBenchCount bounds a parsed workload count.
	maxBenchCount = 1 << 30

	// maxBenchSpan bounds the domain width so random coefficient
	// generation stays within int64.
	maxBenchSpan = int64(1) << 40
)

// BenchCommand holds the configuration for the bench command.
type BenchCommand struct {
	domain    string
	direction string
	lines     string
	queries   string
	seed      int64
}

// NewBenchCommand creates and configures the bench command.
func NewBenchCommand() *cobra.Command {
	bc := &BenchCommand{}

	cobraCmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure insert/query throughput on random lines",
		Long: `Insert uniformly random lines into a Li-Chao tree over the given
domain, run random point queries against the result, and report timings
and snapshot sizes.`,
		RunE: bc.run,
	}

	cobraCmd.Flags().StringVarP(&bc.domain, "domain", "d", "-1048576:1048576", "Half-open query domain LO:HI")
	cobraCmd.Flags().StringVar(&bc.direction, "direction", "min", "Envelope direction (min, max)")
	cobraCmd.Flags().StringVar(&bc.lines, "lines", defaultBenchLines, "Number of random lines to insert (accepts SI suffixes, e.g. 10k, 1M)")
	cobraCmd.Flags().StringVar(&bc.queries, "queries", defaultBenchQueries, "Number of random point queries to run (accepts SI suffixes)")
	cobraCmd.Flags().Int64Var(&bc.seed, "seed", defaultBenchSeed, "Seed for the random workload")

	return cobraCmd
}

// run executes the bench command.
func (bc *BenchCommand) run(cmd *cobra.Command, _ []string) error {
	lo, hi, err := parseDomain(bc.domain)
	if err != nil {
		return err
	}

	dir, err := lichao.ParseDirection(bc.direction)
	if err != nil {
		return fmt.Errorf("%w: %q", err, bc.direction)
	}

	lineCount, err := parseCount(bc.lines)
	if err != nil {
		return err
	}

	if lineCount <= 0 {
		return fmt.Errorf("%w: %s", ErrNonPositiveLines, bc.lines)
	}

	queryCount, err := parseCount(bc.queries)
	if err != nil {
		return err
	}

	if queryCount <= 0 {
		return fmt.Errorf("%w: %s", ErrNonPositiveQueries, bc.queries)
	}

	// A wrapped (negative) span means hi-lo exceeded int64.
	span := hi - lo
	if span <= 0 || span > maxBenchSpan {
		return fmt.Errorf("%w: [%d, %d)", ErrDomainTooWide, lo, hi)
	}

	tree, err := lichao.New[int64](lo, hi, dir)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(bc.seed))

	insertStart := time.Now()

	for i := 0; i < lineCount; i++ {
		tree.Insert(rng.Int63n(2*span+1)-span, rng.Int63n(2*span+1)-span)
	}

	insertElapsed := time.Since(insertStart)

	queryStart := time.Now()

	for i := 0; i < queryCount; i++ {
		_, _, queryErr := tree.Query(lo + rng.Int63n(span))
		if queryErr != nil {
			return queryErr
		}
	}

	queryElapsed := time.Since(queryStart)

	snapshot, err := tree.MarshalBinary()
	if err != nil {
		return err
	}

	compressedSize := "n/a"
	if packed := lichao.CompressSnapshot(snapshot); packed != nil {
		compressedSize = humanize.Bytes(uint64(len(packed)))
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Domain", fmt.Sprintf("[%d, %d)", lo, hi)},
		{"Direction", dir.String()},
		{"Lines inserted", humanize.Comma(int64(lineCount))},
		{"Insert total", insertElapsed.Round(time.Microsecond).String()},
		{"Insert per op", (insertElapsed / time.Duration(lineCount)).String()},
		{"Queries run", humanize.Comma(int64(queryCount))},
		{"Query total", queryElapsed.Round(time.Microsecond).String()},
		{"Query per op", (queryElapsed / time.Duration(queryCount)).String()},
		{"Snapshot size", humanize.Bytes(uint64(len(snapshot)))},
		{"Snapshot (lz4)", compressedSize},
	})
	tbl.Render()

	return nil
}

// parseCount parses a workload count with an optional SI suffix
// ("200", "10k", "1M").
func parseCount(spec string) (int, error) {
	v, err := humanize.ParseBytes(spec)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCountFormat, spec)
	}

	if v > maxBenchCount {
		return 0, fmt.Errorf("%w: %q", ErrCountTooLarge, spec)
	}

	return int(v), nil
}
