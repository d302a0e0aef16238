package nrtm

import (
	"errors"
	"fmt"

	"github.com/gereons/tome2nrtm/core"
	"github.com/gereons/tome2nrtm/tome"
)

// Points that the winner of an elimination match earns
const EliminationWinPoints = 3

var ErrPlayerNotFound = errors.New("player not found in swiss participants")

// Finds the swiss standing of the participant with the given name.
// Names are the only key shared by the swiss and the elimination
// participants.
func lookupPlayer(name string, swiss []*core.Standing) (*core.Standing, error) {
	for _, s := range swiss {
		if s.Participant.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
}

// Maps the ranked elimination participants to their swiss identities.
// The rank is the place in the elimination bracket and the seed is
// the swiss rank.
func eliminationPlayers(elimination, swiss []*core.Standing) ([]*EliminationPlayer, error) {
	players := make([]*EliminationPlayer, 0, len(elimination))
	for i, standing := range elimination {
		lookup, err := lookupPlayer(standing.Participant.Name(), swiss)
		if err != nil {
			return nil, err
		}

		player := &EliminationPlayer{
			Id:   lookup.Participant.Pk,
			Name: lookup.Participant.Name(),
			Rank: i + 1,
			Seed: lookup.Rank,
		}
		players = append(players, player)
	}
	return players, nil
}

// Resolves an elimination seat to the swiss participant of the same name
func eliminationResult(
	elimination *tome.Tournament,
	seat *tome.MatchParticipant,
	swiss []*core.Standing,
) (EliminationResult, error) {
	name := "n/a"
	if seat.ParticipantPk != nil {
		if p := elimination.Participant(*seat.ParticipantPk); p != nil {
			name = p.Name()
		}
	}

	lookup, err := lookupPlayer(name, swiss)
	if err != nil {
		return EliminationResult{}, err
	}

	if seat.PointsEarned == nil {
		return EliminationResult{}, fmt.Errorf("%w: match participant %d", core.ErrMissingPoints, seat.Pk)
	}

	result := EliminationResult{
		Id:     lookup.Participant.Pk,
		Role:   RoleRunner,
		Winner: *seat.PointsEarned == EliminationWinPoints,
	}
	return result, nil
}

// Creates one round of games per elimination round. Byes in the
// bracket are not part of the rounds.
func eliminationRounds(elimination *tome.Tournament, swiss []*core.Standing) ([]Round, error) {
	rounds := make([]Round, 0, elimination.CurrentRound)
	for round := 1; round <= elimination.CurrentRound; round += 1 {
		games := make(Round, 0)
		for _, match := range elimination.RoundMatches(round) {
			seats := elimination.Seats(match)
			if len(seats) != 2 {
				continue
			}

			player1, err := eliminationResult(elimination, seats[0], swiss)
			if err != nil {
				return nil, err
			}
			player2, err := eliminationResult(elimination, seats[1], swiss)
			if err != nil {
				return nil, err
			}

			games = append(games, NewEliminationGame(match.OrderIndex+1, player1, player2))
		}
		rounds = append(rounds, games)
	}
	return rounds, nil
}
