package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/lichao/pkg/lichao"
)

// Sentinel errors for the eval command.
var (
	ErrInvalidDomainFormat = errors.New("domain must be formatted as LO:HI with LO < HI")
	ErrInvalidLineFormat   = errors.New("line must be formatted as SLOPE,INTERCEPT")
	ErrNoQueryPoints       = errors.New("no query points given. Use --at, e.g.: --at 0 --at 5")
	ErrVerifyMismatch      = errors.New("envelope value diverged from brute-force evaluation")
)

// Marker printed for points no inserted line reaches.
const emptyResultMarker = "(none)"

// EvalCommand holds the configuration for the eval command.
type EvalCommand struct {
	domain    string
	direction string
	lines     []string
	points    []int64
	verify    bool
}

// NewEvalCommand creates and configures the eval command.
func NewEvalCommand() *cobra.Command {
	ec := &EvalCommand{}

	cobraCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the line envelope at given points",
		Long: `Build a Li-Chao tree over the given domain, insert the given lines,
and print the envelope value at each queried point.

Lines are given as SLOPE,INTERCEPT pairs. Points outside the domain are
rejected; points no line reaches print "(none)".`,
		RunE: ec.run,
	}

	cobraCmd.Flags().StringVarP(&ec.domain, "domain", "d", "0:1024", "Half-open query domain LO:HI")
	cobraCmd.Flags().StringVar(&ec.direction, "direction", "min", "Envelope direction (min, max)")
	cobraCmd.Flags().StringSliceVarP(&ec.lines, "line", "l", nil, "Line to insert as SLOPE,INTERCEPT (repeatable)")
	cobraCmd.Flags().Int64SliceVarP(&ec.points, "at", "t", nil, "Point to query (repeatable)")
	cobraCmd.Flags().BoolVar(&ec.verify, "verify", false, "Cross-check every result against brute-force evaluation")

	return cobraCmd
}

// run executes the eval command.
func (ec *EvalCommand) run(cmd *cobra.Command, _ []string) error {
	lo, hi, err := parseDomain(ec.domain)
	if err != nil {
		return err
	}

	dir, err := lichao.ParseDirection(ec.direction)
	if err != nil {
		return fmt.Errorf("%w: %q", err, ec.direction)
	}

	if len(ec.points) == 0 {
		return ErrNoQueryPoints
	}

	tree, err := lichao.New[int64](lo, hi, dir)
	if err != nil {
		return err
	}

	parsed := make([]lichao.Line[int64], 0, len(ec.lines))

	for _, spec := range ec.lines {
		line, parseErr := parseLine(spec)
		if parseErr != nil {
			return parseErr
		}

		parsed = append(parsed, line)
	}

	tree.InsertAll(parsed)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Point", strings.ToUpper(dir.String()) + " envelope"})

	for _, pt := range ec.points {
		value, ok, queryErr := tree.Query(pt)
		if queryErr != nil {
			return queryErr
		}

		display := emptyResultMarker

		if ok {
			if ec.verify && value != bruteForce(parsed, pt, dir) {
				return fmt.Errorf("%w: point %d", ErrVerifyMismatch, pt)
			}

			display = strconv.FormatInt(value, 10)
		}

		tbl.AppendRow(table.Row{pt, display})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d lines", tree.Len()), fmt.Sprintf("domain [%d, %d)", lo, hi)})
	tbl.Render()

	return nil
}

// parseDomain parses a LO:HI domain spec.
func parseDomain(spec string) (lo, hi int64, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDomainFormat, spec)
	}

	lo, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDomainFormat, spec)
	}

	hi, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDomainFormat, spec)
	}

	return lo, hi, nil
}

// parseLine parses a SLOPE,INTERCEPT line spec.
func parseLine(spec string) (lichao.Line[int64], error) {
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 {
		return lichao.Line[int64]{}, fmt.Errorf("%w: %q", ErrInvalidLineFormat, spec)
	}

	slope, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return lichao.Line[int64]{}, fmt.Errorf("%w: %q", ErrInvalidLineFormat, spec)
	}

	intercept, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return lichao.Line[int64]{}, fmt.Errorf("%w: %q", ErrInvalidLineFormat, spec)
	}

	return lichao.Line[int64]{Slope: slope, Intercept: intercept}, nil
}

// bruteForce evaluates every line at pt and folds with the direction.
func bruteForce(lines []lichao.Line[int64], pt int64, dir lichao.Direction) int64 {
	best := lines[0].Eval(pt)

	for _, line := range lines[1:] {
		v := line.Eval(pt)
		if (dir == lichao.Min && v < best) || (dir == lichao.Max && v > best) {
			best = v
		}
	}

	return best
}
