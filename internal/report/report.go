// Package report prints a tournament's rounds and ranking for
// checking a conversion by eye.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gereons/tome2nrtm/core"
	"github.com/gereons/tome2nrtm/tome"
)

// Write prints every round of the tournament ordered by table
// followed by the ranking. Participants without matches are
// left out of the ranking.
func Write(w io.Writer, tournament *tome.Tournament) error {
	standings, err := core.CalculateScores(tournament)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tournament: %s %d\n", tournament.Name, tournament.Pk)
	fmt.Fprintf(&sb, "  %d players\n", len(tournament.Participants))

	for round := 1; round <= tournament.CurrentRound; round += 1 {
		matches := tournament.RoundMatches(round)
		slices.SortStableFunc(matches, func(a, b *tome.Match) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })

		fmt.Fprintf(&sb, "Round %d\n", round)
		fmt.Fprintf(&sb, "  Matches: %d\n", len(matches))
		for _, m := range matches {
			seats := tournament.Seats(m)
			names := make([]string, 0, len(seats))
			points := make([]string, 0, len(seats))
			for _, s := range seats {
				names = append(names, seatName(tournament, s))
				points = append(points, seatPoints(s))
			}

			if m.IsBye() {
				fmt.Fprintf(&sb, "  Bye: %s\n", strings.Join(names, " vs "))
			} else {
				fmt.Fprintf(
					&sb, "  Table %d: Opponents: %s %s\n",
					m.OrderIndex+1, strings.Join(names, " vs "), strings.Join(points, ":"),
				)
			}
		}
	}

	for _, s := range standings {
		if s.Average.IsNaN() {
			continue
		}
		p := s.Participant
		fmt.Fprintf(
			&sb, "%d p=%d %s avg=%v sos=%v xsos=%v %v %d\n",
			s.Rank, s.Score, p.Name(), s.Average, s.StrengthOfSchedule, s.ExtendedStrengthOfSchedule, p.IsActive, p.Pk,
		)
	}

	_, err = io.WriteString(w, sb.String())
	return err
}

func seatName(tournament *tome.Tournament, seat *tome.MatchParticipant) string {
	if seat.ParticipantPk == nil {
		return "n/a"
	}
	p := tournament.Participant(*seat.ParticipantPk)
	if p == nil {
		return "n/a"
	}
	return p.Name()
}

func seatPoints(seat *tome.MatchParticipant) string {
	if seat.PointsEarned == nil {
		return "-"
	}
	return strconv.Itoa(*seat.PointsEarned)
}
