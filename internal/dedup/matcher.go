package dedup

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/helixir/author-match/internal/assign"
	"github.com/helixir/author-match/internal/domain"
	"github.com/helixir/author-match/internal/observability"
	"github.com/helixir/author-match/internal/unionfind"
)

// MatcherConfig holds the tuning parameters of a Matcher.
type MatcherConfig struct {
	// Threshold is the largest distance accepted as a match, normally in [0, 1].
	// Values outside that range are not rejected: below 0 nothing matches,
	// above 1 every optimally assigned pair does.
	Threshold float64

	// Workers bounds how many connected components are resolved
	// concurrently. Zero or less uses GOMAXPROCS.
	Workers int
}

// Matcher partitions two author lists into common pairs and records unique
// to either list. A Matcher holds no per-run state and is safe for
// concurrent use as long as its Distance and Normalizers are.
type Matcher struct {
	cfg     MatcherConfig
	dist    Distance
	cascade []Normalizer
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewMatcher creates a Matcher. cascade is applied in order; metrics may be nil.
func NewMatcher(
	cfg MatcherConfig,
	dist Distance,
	cascade []Normalizer,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *Matcher {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Matcher{
		cfg:     cfg,
		dist:    dist,
		cascade: slices.Clone(cascade),
		logger:  logger.With().Str("component", "matcher").Logger(),
		metrics: metrics,
	}
}

// Match is a convenience entry point that runs a single-worker Matcher
// without logging or metrics.
func Match(left, right []domain.Record, threshold float64, dist Distance, cascade ...Normalizer) (*domain.Partition, error) {
	m := NewMatcher(MatcherConfig{Threshold: threshold, Workers: 1}, dist, cascade, zerolog.Nop(), nil)
	return m.Match(context.Background(), left, right)
}

// Match resolves left and right into a partition. Every input record ends
// up in exactly one place: a common pair, LeftOnly or RightOnly. Groups are
// ordered by input index.
//
// Errors returned by the Distance or a Normalizer abort the run and are
// returned wrapped in a *domain.StageError. The context is checked between
// stages and while components are being resolved.
func (m *Matcher) Match(ctx context.Context, left, right []domain.Record) (*domain.Partition, error) {
	start := time.Now()

	runID := observability.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := observability.WithMatchContext(m.logger, runID, len(left), len(right))

	m.metrics.RecordRunStarted(len(left), len(right))
	logger.Info().Float64("threshold", m.cfg.Threshold).Msg("match run started")

	r := newRun(left, right)
	if err := m.run(ctx, logger, r); err != nil {
		m.metrics.RecordRunFailed(time.Since(start).Seconds())
		logger.Error().Err(err).Msg("match run failed")
		return nil, err
	}

	part := r.partition()
	m.metrics.RecordRunCompleted(time.Since(start).Seconds(), len(part.LeftOnly), len(part.RightOnly))
	logger.Info().
		Int("common", len(part.Common)).
		Int("left_only", len(part.LeftOnly)).
		Int("right_only", len(part.RightOnly)).
		Dur("duration", time.Since(start)).
		Msg("match run completed")

	return part, nil
}

func (m *Matcher) run(ctx context.Context, logger zerolog.Logger, r *run) error {
	if len(r.left) == 0 || len(r.right) == 0 {
		return nil
	}

	for _, n := range m.cascade {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("match cancelled before stage %s: %w", n.Name(), err)
		}
		if len(r.leftOpen) == 0 || len(r.rightOpen) == 0 {
			break
		}
		if err := m.cascadeStage(observability.WithStageContext(logger, n.Name()), r, n); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("match cancelled before assignment: %w", err)
	}
	return m.assignmentStage(ctx, observability.WithStageContext(logger, domain.StageAssignment), r)
}

// cascadeStage buckets the open records of both sides by n's key and
// accepts every bucket holding exactly one record per side whose distance
// is within the threshold.
func (m *Matcher) cascadeStage(logger zerolog.Logger, r *run, n Normalizer) error {
	stage := n.Name()

	leftBuckets, keys, err := bucket(stage, r.left, r.leftOpen, n, true)
	if err != nil {
		return err
	}
	rightBuckets, _, err := bucket(stage, r.right, r.rightOpen, n, false)
	if err != nil {
		return err
	}

	evalsBefore := r.evals
	matched := 0
	for _, key := range keys {
		li, ri := leftBuckets[key], rightBuckets[key]
		if len(li) != 1 || len(ri) != 1 {
			continue
		}
		d, err := r.distance(m.dist, stage, li[0], ri[0])
		if err != nil {
			return err
		}
		if d > m.cfg.Threshold {
			continue
		}
		r.accept(li[0], ri[0], d, stage)
		matched++
	}
	r.closeMatched()

	m.metrics.RecordPairsMatched(stage, matched)
	m.metrics.RecordDistanceEvaluations(stage, r.evals-evalsBefore)
	logger.Debug().
		Int("matched", matched).
		Int("left_open", len(r.leftOpen)).
		Int("right_open", len(r.rightOpen)).
		Msg("cascade stage completed")

	return nil
}

// assignmentStage compares every remaining pair, links the pairs within
// the threshold, and resolves each connected component on its own.
// Records without any link stay unmatched without reaching the solver.
func (m *Matcher) assignmentStage(ctx context.Context, logger zerolog.Logger, r *run) error {
	evalsBefore := r.evals

	graph := unionfind.New()
	for _, i := range r.leftOpen {
		for _, j := range r.rightOpen {
			d, err := r.distance(m.dist, domain.StageAssignment, i, j)
			if err != nil {
				return err
			}
			if d <= m.cfg.Threshold {
				graph.AddEdge(i, j)
			}
		}
	}
	m.metrics.RecordDistanceEvaluations(domain.StageAssignment, r.evals-evalsBefore)

	components := slices.Collect(graph.Components())
	results := make([]assign.Result, len(components))

	// r.dist is complete for every open pair and only read from here on.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)
	for k, c := range components {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := assign.Resolve(r.costMatrix(c), m.cfg.Threshold)
			if err != nil {
				return domain.NewStageError(domain.StageAssignment, c.Left[0], c.Right[0], err)
			}
			results[k] = res
			m.metrics.RecordComponent(c.Size())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolving components: %w", err)
	}

	matched := 0
	for k, c := range components {
		for _, a := range results[k].Matched {
			r.accept(c.Left[a.Row], c.Right[a.Col], a.Cost, domain.StageAssignment)
			matched++
		}
	}
	r.closeMatched()

	m.metrics.RecordPairsMatched(domain.StageAssignment, matched)
	logger.Debug().
		Int("components", len(components)).
		Int("nodes", graph.Len()).
		Int("matched", matched).
		Msg("assignment stage completed")

	return nil
}

func bucket(stage string, records []domain.Record, open []int, n Normalizer, left bool) (map[string][]int, []string, error) {
	buckets := make(map[string][]int)
	var keys []string
	for _, i := range open {
		key, err := n.Key(records[i])
		if err != nil {
			if left {
				return nil, nil, domain.NewStageError(stage, i, -1, err)
			}
			return nil, nil, domain.NewStageError(stage, -1, i, err)
		}
		if key == "" {
			continue
		}
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], i)
	}
	return buckets, keys, nil
}

type pairKey struct {
	left, right int
}

// run is the mutable state of one Match call.
type run struct {
	left, right []domain.Record

	// leftOpen and rightOpen hold the indices not yet matched, ascending.
	leftOpen, rightOpen []int
	leftDone, rightDone []bool

	dist   map[pairKey]float64
	evals  int
	common []domain.Pair
}

func newRun(left, right []domain.Record) *run {
	r := &run{
		left:      left,
		right:     right,
		leftOpen:  make([]int, len(left)),
		rightOpen: make([]int, len(right)),
		leftDone:  make([]bool, len(left)),
		rightDone: make([]bool, len(right)),
		dist:      make(map[pairKey]float64),
	}
	for i := range r.leftOpen {
		r.leftOpen[i] = i
	}
	for j := range r.rightOpen {
		r.rightOpen[j] = j
	}
	return r
}

// distance returns the memoized distance between left[i] and right[j].
func (r *run) distance(dist Distance, stage string, i, j int) (float64, error) {
	k := pairKey{i, j}
	if d, ok := r.dist[k]; ok {
		return d, nil
	}
	d, err := dist.Distance(r.left[i], r.right[j])
	if err != nil {
		return 0, domain.NewStageError(stage, i, j, err)
	}
	r.dist[k] = d
	r.evals++
	return d, nil
}

func (r *run) costMatrix(c unionfind.Component) [][]float64 {
	costs := make([][]float64, len(c.Left))
	for a, i := range c.Left {
		costs[a] = make([]float64, len(c.Right))
		for b, j := range c.Right {
			costs[a][b] = r.dist[pairKey{i, j}]
		}
	}
	return costs
}

func (r *run) accept(i, j int, d float64, stage string) {
	r.leftDone[i] = true
	r.rightDone[j] = true
	r.common = append(r.common, domain.Pair{
		Left:       r.left[i],
		Right:      r.right[j],
		LeftIndex:  i,
		RightIndex: j,
		Distance:   d,
		Stage:      stage,
	})
}

// closeMatched drops accepted indices from the open lists.
func (r *run) closeMatched() {
	r.leftOpen = slices.DeleteFunc(r.leftOpen, func(i int) bool { return r.leftDone[i] })
	r.rightOpen = slices.DeleteFunc(r.rightOpen, func(j int) bool { return r.rightDone[j] })
}

func (r *run) partition() *domain.Partition {
	part := &domain.Partition{
		Common:    r.common,
		LeftOnly:  make([]domain.Entry, 0, len(r.leftOpen)),
		RightOnly: make([]domain.Entry, 0, len(r.rightOpen)),
	}
	for _, i := range r.leftOpen {
		part.LeftOnly = append(part.LeftOnly, domain.Entry{Index: i, Record: r.left[i]})
	}
	for _, j := range r.rightOpen {
		part.RightOnly = append(part.RightOnly, domain.Entry{Index: j, Record: r.right[j]})
	}
	if part.Common == nil {
		part.Common = []domain.Pair{}
	}
	part.Sort()
	return part
}
