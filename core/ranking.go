package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/gereons/tome2nrtm/tome"
)

const (
	// Points that a bye awards. It is the value of a full match win.
	ByePoints = 6
)

var (
	ErrMatchSize          = errors.New("match has neither one nor two participants")
	ErrMissingPoints      = errors.New("match participant has no points earned")
	ErrMissingParticipant = errors.New("match participant has no participant")
	ErrUnknownParticipant = errors.New("participant is not part of the tournament")
)

// A Standing is the ranked result of one participant after
// a ranking pass.
type Standing struct {
	Participant *tome.Participant

	// Sum of the points earned, byes count ByePoints
	Score int
	// 1-based place in the ranking
	Rank int

	Average                    Metric
	StrengthOfSchedule         Metric
	ExtendedStrengthOfSchedule Metric
}

// One match as seen by one participant
type matchRecord struct {
	points   int
	opponent int
	bye      bool
}

// The state of one ranking pass over a tournament
type scoring struct {
	tournament *tome.Tournament
	cache      *ScoreCache
	graph      *MetricGraph

	scores  map[int]int
	records map[int][]matchRecord
}

// A Scorer ranks the participants of one tournament. It owns the
// tournament's ScoreCache which is reset at the start of each pass.
type Scorer struct {
	tournament *tome.Tournament
	cache      *ScoreCache
	graph      *MetricGraph
}

func NewScorer(tournament *tome.Tournament) *Scorer {
	return &Scorer{tournament: tournament, cache: NewScoreCache(), graph: metricGraph}
}

// Calculates the score, average score, strength of schedule and
// extended strength of schedule of every participant and returns
// the participants in descending order of their rank.
//
// The ranking is decided in this order:
//   - Who has the higher score
//   - Who has the higher strength of schedule
//   - Who has the higher extended strength of schedule
//   - Who has the higher tiebreaker
//
// All participants are returned including those who dropped or
// never played a match (the latter have a NaN average).
func (s *Scorer) CalculateScores() ([]*Standing, error) {
	s.cache.Reset()

	pass := &scoring{
		tournament: s.tournament,
		cache:      s.cache,
		graph:      s.graph,
		scores:     make(map[int]int),
		records:    make(map[int][]matchRecord),
	}

	for _, p := range s.tournament.Participants {
		pass.scores[p.Pk] = 0
	}

	if err := pass.collectScores(); err != nil {
		return nil, err
	}

	tiers, err := s.graph.Order()
	if err != nil {
		return nil, err
	}
	for _, kind := range tiers {
		for _, p := range s.tournament.Participants {
			pass.metric(kind, p.Pk)
		}
	}

	standings := make([]*Standing, 0, len(s.tournament.Participants))
	for _, p := range s.tournament.Participants {
		standing := &Standing{
			Participant:                p,
			Score:                      pass.scores[p.Pk],
			Average:                    pass.metric(Average, p.Pk),
			StrengthOfSchedule:         pass.metric(StrengthOfSchedule, p.Pk),
			ExtendedStrengthOfSchedule: pass.metric(ExtendedStrengthOfSchedule, p.Pk),
		}
		standings = append(standings, standing)
	}

	slices.SortStableFunc(standings, compareStandings)

	for i, standing := range standings {
		standing.Rank = i + 1
	}

	return standings, nil
}

// Runs a fresh ranking pass over the tournament
func CalculateScores(tournament *tome.Tournament) ([]*Standing, error) {
	return NewScorer(tournament).CalculateScores()
}

// Orders a before b when a ranks higher
func compareStandings(a, b *Standing) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := b.StrengthOfSchedule.Cmp(a.StrengthOfSchedule); c != 0 {
		return c
	}
	if c := b.ExtendedStrengthOfSchedule.Cmp(a.ExtendedStrengthOfSchedule); c != 0 {
		return c
	}
	return cmp.Compare(b.Participant.Tiebreaker, a.Participant.Tiebreaker)
}

// Sums up the raw scores and records each participant's matches
func (s *scoring) collectScores() error {
	for match, seats := range s.tournament.EnumerateMatches() {
		switch len(seats) {
		case 1:
			pk, err := s.seatedParticipant(match, seats[0])
			if err != nil {
				return err
			}
			s.scores[pk] += ByePoints
			s.records[pk] = append(s.records[pk], matchRecord{points: ByePoints, bye: true})
		case 2:
			pk1, err := s.seatedParticipant(match, seats[0])
			if err != nil {
				return err
			}
			pk2, err := s.seatedParticipant(match, seats[1])
			if err != nil {
				return err
			}
			points1, err := pointsEarned(match, seats[0])
			if err != nil {
				return err
			}
			points2, err := pointsEarned(match, seats[1])
			if err != nil {
				return err
			}

			s.scores[pk1] += points1
			s.scores[pk2] += points2
			s.records[pk1] = append(s.records[pk1], matchRecord{points: points1, opponent: pk2})
			s.records[pk2] = append(s.records[pk2], matchRecord{points: points2, opponent: pk1})
		default:
			return fmt.Errorf(
				"%w: match %d in round %d of %q has %d",
				ErrMatchSize, match.Pk, match.Round, s.tournament.Name, len(seats),
			)
		}
	}
	return nil
}

func (s *scoring) seatedParticipant(match *tome.Match, seat *tome.MatchParticipant) (int, error) {
	if seat.ParticipantPk == nil {
		return 0, fmt.Errorf("%w: match participant %d in match %d", ErrMissingParticipant, seat.Pk, match.Pk)
	}
	pk := *seat.ParticipantPk
	if s.tournament.Participant(pk) == nil {
		return 0, fmt.Errorf("%w: participant %d in match %d of %q", ErrUnknownParticipant, pk, match.Pk, s.tournament.Name)
	}
	return pk, nil
}

func pointsEarned(match *tome.Match, seat *tome.MatchParticipant) (int, error) {
	if seat.PointsEarned == nil {
		return 0, fmt.Errorf("%w: match participant %d in match %d", ErrMissingPoints, seat.Pk, match.Pk)
	}
	return *seat.PointsEarned, nil
}

// Returns the metric of the participant from the cache or
// computes and caches it on the first access. The input of
// the metric is looked up in the metric graph.
func (s *scoring) metric(kind MetricKind, pk int) Metric {
	if value, ok := s.cache.Get(pk, kind); ok {
		return value
	}

	var value Metric
	switch inputs := s.graph.GetDependencies(kind); len(inputs) {
	case 0:
		value = s.averageScore(pk)
	case 1:
		value = s.opponentMean(pk, inputs[0])
	default:
		panic(fmt.Sprintf("metric %v has %d inputs", kind, len(inputs)))
	}

	s.cache.Store(value, pk, kind)
	return value
}

// The mean of the points earned in all matches including byes.
// NaN when the participant played no match.
func (s *scoring) averageScore(pk int) Metric {
	records := s.records[pk]
	if len(records) == 0 {
		return NaN
	}

	sum := Zero
	for _, r := range records {
		sum = sum.Add(MetricFromInt(r.points))
	}
	return sum.Div(len(records))
}

// The mean of the opponents' metrics of the given kind. Byes have
// no opponent and are not counted. Zero when there are no opponents.
func (s *scoring) opponentMean(pk int, kind MetricKind) Metric {
	sum := Zero
	opponents := 0
	for _, r := range s.records[pk] {
		if r.bye {
			continue
		}
		sum = sum.Add(s.metric(kind, r.opponent))
		opponents += 1
	}

	if opponents == 0 {
		return Zero
	}
	return sum.Div(opponents)
}
