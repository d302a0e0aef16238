package core

// The kinds of derived per-participant metrics
type MetricKind int

const (
	Average MetricKind = iota
	StrengthOfSchedule
	ExtendedStrengthOfSchedule
)

func (k MetricKind) String() string {
	switch k {
	case Average:
		return "avg"
	case StrengthOfSchedule:
		return "sos"
	case ExtendedStrengthOfSchedule:
		return "xsos"
	}
	return "unknown"
}

// Id of the kind as a node in the metric graph
func (k MetricKind) Id() int {
	return int(k)
}

type cacheKey struct {
	participantPk int
	kind          MetricKind
}

// A ScoreCache memoizes the metrics of one tournament during a
// ranking pass. It has to be reset before each pass because the
// cached values depend on the match results the pass started with.
//
// The cache is not safe for concurrent use.
type ScoreCache struct {
	entries map[cacheKey]Metric
}

func (c *ScoreCache) Store(value Metric, participantPk int, kind MetricKind) {
	c.entries[cacheKey{participantPk, kind}] = value
}

// Returns the cached metric and true or false when
// the metric is not present.
func (c *ScoreCache) Get(participantPk int, kind MetricKind) (Metric, bool) {
	value, ok := c.entries[cacheKey{participantPk, kind}]
	return value, ok
}

// Removes all entries
func (c *ScoreCache) Reset() {
	clear(c.entries)
}

func (c *ScoreCache) size() int {
	return len(c.entries)
}

func NewScoreCache() *ScoreCache {
	return &ScoreCache{entries: make(map[cacheKey]Metric)}
}
