package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/gereons/tome2nrtm/tome"
	"github.com/shopspring/decimal"
)

type testSeat struct {
	participant, points int
}

type testMatch struct {
	round int
	// -1 for a bye
	orderIndex int
	seats      []testSeat
}

// Builds a swiss tournament with one participant per name. The
// participants get the primary keys 1, 2, 3...
func buildTournament(names []string, tiebreakers []float64, matches []testMatch) *tome.Tournament {
	tournamentPk := 1
	currentRound := 0

	participants := make([]*tome.Participant, 0, len(names))
	for i, name := range names {
		first, last, _ := strings.Cut(name, " ")
		participants = append(participants, &tome.Participant{
			Pk:           i + 1,
			TournamentPk: &tournamentPk,
			FirstName:    &first,
			LastName:     &last,
			IsActive:     true,
			Tiebreaker:   tiebreakers[i],
		})
	}

	tomeMatches := make([]*tome.Match, 0, len(matches))
	seats := make([]*tome.MatchParticipant, 0, 2*len(matches))
	for i, m := range matches {
		match := &tome.Match{
			Pk:           100 + i,
			TournamentPk: &tournamentPk,
			Round:        m.round,
			OrderIndex:   m.orderIndex,
		}
		tomeMatches = append(tomeMatches, match)
		currentRound = max(currentRound, m.round)

		for j, s := range m.seats {
			participantPk := s.participant
			points := s.points
			seats = append(seats, &tome.MatchParticipant{
				Pk:            1000 + len(seats),
				ParticipantPk: &participantPk,
				MatchPk:       match.Pk,
				PointsEarned:  &points,
				TableSeat:     j,
			})
		}
	}

	tournament := &tome.Tournament{Pk: tournamentPk, Name: "Test", CurrentRound: currentRound}
	tome.NewExport(tome.SupportedVersion, []*tome.Tournament{tournament}, tomeMatches, participants, seats)
	return tournament
}

func match(round, orderIndex int, p1, points1, p2, points2 int) testMatch {
	return testMatch{round, orderIndex, []testSeat{{p1, points1}, {p2, points2}}}
}

func bye(round, p int) testMatch {
	return testMatch{round, -1, []testSeat{{p, ByePoints}}}
}

func equalsDecimal(m Metric, value string) bool {
	return !m.IsNaN() && m.Decimal().Equal(decimal.RequireFromString(value))
}

func findStanding(standings []*Standing, pk int) *Standing {
	for _, s := range standings {
		if s.Participant.Pk == pk {
			return s
		}
	}
	return nil
}

func TestRankingTiebreaker(t *testing.T) {
	tournament := buildTournament(
		[]string{"Ada A", "Bob B", "Cy C", "Dee D"},
		[]float64{0.5, 0.2, 0.8, 0.1},
		[]testMatch{
			match(1, 0, 1, 3, 2, 0),
			match(1, 1, 3, 3, 4, 0),
			match(2, 0, 1, 3, 3, 0),
			match(2, 1, 2, 3, 4, 0),
		},
	)

	standings, err := CalculateScores(tournament)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(standings) != 4 {
		t.Fatal("The ranking does not contain all participants.")
	}

	// Bob and Cy are tied on score, sos and xsos
	expectedOrder := []int{1, 3, 2, 4}
	for i, s := range standings {
		if s.Participant.Pk != expectedOrder[i] {
			t.Fatalf("The participant on rank %d is %d, expected %d.", i+1, s.Participant.Pk, expectedOrder[i])
		}
		if s.Rank != i+1 {
			t.Fatal("The ranks are not the 1-based positions in the ranking.")
		}
		if !equalsDecimal(s.StrengthOfSchedule, "1.5") || !equalsDecimal(s.ExtendedStrengthOfSchedule, "1.5") {
			t.Fatalf("Participant %d has sos %v and xsos %v.", s.Participant.Pk, s.StrengthOfSchedule, s.ExtendedStrengthOfSchedule)
		}
	}

	if standings[0].Score != 6 || standings[1].Score != 3 || standings[2].Score != 3 || standings[3].Score != 0 {
		t.Fatal("The scores are not the sums of the points earned.")
	}

	if !equalsDecimal(standings[0].Average, "3") || !equalsDecimal(standings[3].Average, "0") {
		t.Fatal("The average scores are not the mean of the points earned.")
	}
}

func TestRankingWithByes(t *testing.T) {
	tournament := buildTournament(
		[]string{"Ada A", "Bob B", "Cy C", "Eve E"},
		[]float64{0.1, 0.2, 0.3, 0.9},
		[]testMatch{
			match(1, 0, 1, 3, 2, 0),
			bye(1, 3),
			match(2, 0, 1, 0, 3, 3),
			bye(2, 2),
		},
	)
	// Eve dropped before playing
	tournament.Participant(4).IsActive = false

	standings, err := CalculateScores(tournament)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ada := findStanding(standings, 1)
	bob := findStanding(standings, 2)
	cy := findStanding(standings, 3)
	eve := findStanding(standings, 4)

	if cy.Rank != 1 || bob.Rank != 2 || ada.Rank != 3 || eve.Rank != 4 {
		t.Fatal("The ranking is not ordered by score.")
	}

	if ada.Score != 3 || bob.Score != 6 || cy.Score != 9 || eve.Score != 0 {
		t.Fatal("The byes were not scored with the bye points.")
	}

	if !equalsDecimal(ada.Average, "1.5") || !equalsDecimal(bob.Average, "3") || !equalsDecimal(cy.Average, "4.5") {
		t.Fatal("The byes were not counted as played matches in the average score.")
	}

	if !equalsDecimal(ada.StrengthOfSchedule, "3.75") {
		t.Fatalf("Ada has sos %v, expected 3.75.", ada.StrengthOfSchedule)
	}
	if !equalsDecimal(bob.StrengthOfSchedule, "1.5") || !equalsDecimal(cy.StrengthOfSchedule, "1.5") {
		t.Fatal("The byes were counted as opponents in the strength of schedule.")
	}

	if !equalsDecimal(ada.ExtendedStrengthOfSchedule, "1.5") || !equalsDecimal(bob.ExtendedStrengthOfSchedule, "3.75") {
		t.Fatal("The extended strength of schedule is not the mean of the opponents' sos.")
	}

	if !eve.Average.IsNaN() {
		t.Fatal("A participant without matches does not have a NaN average.")
	}
	if !equalsDecimal(eve.StrengthOfSchedule, "0") || !equalsDecimal(eve.ExtendedStrengthOfSchedule, "0") {
		t.Fatal("A participant without opponents does not have a zero sos and xsos.")
	}
}

func TestMetricInputsFollowGraph(t *testing.T) {
	deps := metricGraph.GetDependencies(ExtendedStrengthOfSchedule)
	if len(deps) != 1 || deps[0] != StrengthOfSchedule {
		t.Fatalf("The extended strength of schedule depends on %v.", deps)
	}
	deps = metricGraph.GetDependencies(StrengthOfSchedule)
	if len(deps) != 1 || deps[0] != Average {
		t.Fatalf("The strength of schedule depends on %v.", deps)
	}
	if len(metricGraph.GetDependencies(Average)) != 0 {
		t.Fatal("The average score is not the root of the metric graph.")
	}

	tournament := buildTournament(
		[]string{"Ada A", "Bob B", "Cy C"},
		[]float64{0.1, 0.2, 0.3},
		[]testMatch{
			match(1, 0, 1, 3, 2, 0),
			bye(1, 3),
			match(2, 0, 1, 0, 3, 3),
			bye(2, 2),
		},
	)

	// Compute the extended strength of schedule from the
	// opponents' averages instead of their sos
	rewired := NewMetricGraph()
	if err := rewired.RemoveEdge(StrengthOfSchedule.Id(), ExtendedStrengthOfSchedule.Id()); err != nil {
		t.Fatal(err)
	}
	if err := rewired.AddEdge(Average, ExtendedStrengthOfSchedule); err != nil {
		t.Fatal(err)
	}

	scorer := NewScorer(tournament)
	scorer.graph = rewired
	standings, err := scorer.CalculateScores()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range standings {
		if !s.ExtendedStrengthOfSchedule.Equal(s.StrengthOfSchedule) {
			t.Fatal("The extended strength of schedule did not read the input from the metric graph.")
		}
	}

	standings, err = CalculateScores(tournament)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ada := findStanding(standings, 1)
	if !equalsDecimal(ada.StrengthOfSchedule, "3.75") || !equalsDecimal(ada.ExtendedStrengthOfSchedule, "1.5") {
		t.Fatal("The default metric graph does not chain avg, sos and xsos.")
	}
}

func TestRankingDoesNotMutateParticipants(t *testing.T) {
	tournament := buildTournament(
		[]string{"Ada A", "Bob B"},
		[]float64{0.1, 0.2},
		[]testMatch{match(1, 0, 1, 0, 2, 3)},
	)

	scorer := NewScorer(tournament)
	first, err := scorer.CalculateScores()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scorer.cache.size() != 6 {
		t.Fatal("The pass did not cache three metrics per participant.")
	}

	// Change a result and run a second pass with the same scorer
	*tournament.MatchParticipants[0].PointsEarned = 6
	*tournament.MatchParticipants[1].PointsEarned = 0
	second, err := scorer.CalculateScores()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first[0].Participant.Pk != 2 || first[0].Score != 3 {
		t.Fatal("The first pass's standings changed after the second pass.")
	}
	if second[0].Participant.Pk != 1 || second[0].Score != 6 {
		t.Fatal("The second pass did not rank on the changed results.")
	}
	if !equalsDecimal(second[0].Average, "6") {
		t.Fatal("The second pass read stale cached metrics.")
	}
}

func TestRankingErrors(t *testing.T) {
	tournament := buildTournament(
		[]string{"Ada A", "Bob B", "Cy C"},
		[]float64{0.1, 0.2, 0.3},
		[]testMatch{{1, 0, []testSeat{{1, 3}, {2, 0}, {3, 0}}}},
	)
	_, err := CalculateScores(tournament)
	if !errors.Is(err, ErrMatchSize) {
		t.Fatal("A match with three participants did not error.")
	}

	tournament = buildTournament(
		[]string{"Ada A", "Bob B"},
		[]float64{0.1, 0.2},
		[]testMatch{match(1, 0, 1, 3, 2, 0)},
	)
	tournament.MatchParticipants[1].PointsEarned = nil
	_, err = CalculateScores(tournament)
	if !errors.Is(err, ErrMissingPoints) {
		t.Fatal("A match participant without points did not error.")
	}

	tournament.MatchParticipants[1].ParticipantPk = nil
	_, err = CalculateScores(tournament)
	if !errors.Is(err, ErrMissingParticipant) {
		t.Fatal("A match participant without participant did not error.")
	}

	stranger := 99
	tournament.MatchParticipants[1].ParticipantPk = &stranger
	_, err = CalculateScores(tournament)
	if !errors.Is(err, ErrUnknownParticipant) {
		t.Fatal("A participant of another tournament did not error.")
	}
}

func TestRankIsStrictTotalOrder(t *testing.T) {
	names := []string{"A a", "B b", "C c", "D d", "E e", "F f"}
	tournament := buildTournament(
		names,
		[]float64{0.6, 0.5, 0.4, 0.3, 0.2, 0.1},
		[]testMatch{
			match(1, 0, 1, 3, 2, 3),
			match(1, 1, 3, 3, 4, 3),
			match(1, 2, 5, 3, 6, 3),
		},
	)

	standings, err := CalculateScores(tournament)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[int]bool)
	for i, s := range standings {
		if seen[s.Rank] {
			t.Fatal("Two participants share a rank.")
		}
		seen[s.Rank] = true

		if i > 0 && compareStandings(standings[i-1], s) >= 0 {
			t.Fatal("The standings are not strictly descending.")
		}
	}

	if standings[0].Participant.Pk != 1 || standings[5].Participant.Pk != 6 {
		t.Fatal("The tiebreaker did not decide the fully tied participants.")
	}
}
