package nrtm

import (
	"fmt"

	"github.com/gereons/tome2nrtm/core"
	"github.com/gereons/tome2nrtm/tome"
)

// Points of a match above this value are split into
// a runner and a corp score
const maxRoleScore = 3

// Splits the points earned in a match into the runner and corp
// score. Up to 3 points are credited to the runner side and the
// rest to the corp side.
func splitScore(total int) (int, int) {
	if total <= maxRoleScore {
		return total, 0
	}
	return maxRoleScore, total - maxRoleScore
}

func swissResult(match *tome.Match, seat *tome.MatchParticipant) (SwissResult, error) {
	if seat.ParticipantPk == nil {
		return SwissResult{}, fmt.Errorf("%w: match participant %d in match %d", core.ErrMissingParticipant, seat.Pk, match.Pk)
	}
	if seat.PointsEarned == nil {
		return SwissResult{}, fmt.Errorf("%w: match participant %d in match %d", core.ErrMissingPoints, seat.Pk, match.Pk)
	}

	runner, corp := splitScore(*seat.PointsEarned)
	result := SwissResult{
		Id:          *seat.ParticipantPk,
		RunnerScore: runner,
		CorpScore:   corp,
	}
	return result, nil
}

// Creates one round of games per swiss round. Byes are
// not part of the rounds.
func swissRounds(swiss *tome.Tournament) ([]Round, error) {
	rounds := make([]Round, 0, swiss.CurrentRound)
	for round := 1; round <= swiss.CurrentRound; round += 1 {
		games := make(Round, 0)
		for _, match := range swiss.RoundMatches(round) {
			seats := swiss.Seats(match)
			if len(seats) != 2 {
				continue
			}

			player1, err := swissResult(match, seats[0])
			if err != nil {
				return nil, err
			}
			player2, err := swissResult(match, seats[1])
			if err != nil {
				return nil, err
			}

			games = append(games, NewSwissGame(match.OrderIndex+1, player1, player2))
		}
		rounds = append(rounds, games)
	}
	return rounds, nil
}

// Returns the players who played at least one match
func players(standings []*core.Standing) []*Player {
	players := make([]*Player, 0, len(standings))
	for _, s := range standings {
		if s.Average.IsNaN() {
			continue
		}
		players = append(players, newPlayer(s))
	}
	return players
}

// Create converts the export into the NRTM tournament document.
//
// The swiss participants are ranked first. When the export contains an
// elimination tournament its participants are ranked too and linked to
// the swiss participants by name. The elimination rounds follow the
// swiss rounds.
func Create(export *tome.Export) (*Tournament, error) {
	swiss, err := export.Swiss()
	if err != nil {
		return nil, err
	}

	swissStandings, err := core.CalculateScores(swiss)
	if err != nil {
		return nil, fmt.Errorf("ranking %q: %w", swiss.Name, err)
	}

	rounds, err := swissRounds(swiss)
	if err != nil {
		return nil, err
	}

	elimPlayers := make([]*EliminationPlayer, 0)

	elimination, err := export.Elimination()
	if err != nil {
		return nil, err
	}
	if elimination != nil {
		elimStandings, err := core.CalculateScores(elimination)
		if err != nil {
			return nil, fmt.Errorf("ranking %q: %w", elimination.Name, err)
		}

		elimRounds, err := eliminationRounds(elimination, swissStandings)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, elimRounds...)

		elimPlayers, err = eliminationPlayers(elimStandings, swissStandings)
		if err != nil {
			return nil, err
		}
	}

	tournament := &Tournament{
		Name:               swiss.Name,
		Players:            players(swissStandings),
		EliminationPlayers: elimPlayers,
		Rounds:             rounds,
		PreliminaryRounds:  swiss.CurrentRound,
		CutToTop:           swiss.CutToTop(),
	}

	return tournament, nil
}
