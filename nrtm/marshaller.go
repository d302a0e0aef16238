package nrtm

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNoResult = errors.New("game has no result")

func marshalResult(result Result, eliminationGame bool) (map[string]any, error) {
	if result == nil {
		return nil, errNoResult
	}

	anymap := map[string]any{"id": result.PlayerId()}
	switch r := result.(type) {
	case SwissResult:
		if eliminationGame {
			break
		}
		anymap["runnerScore"] = r.RunnerScore
		anymap["corpScore"] = r.CorpScore
		return anymap, nil
	case EliminationResult:
		if !eliminationGame {
			break
		}
		anymap["role"] = r.Role
		anymap["winner"] = r.Winner
		return anymap, nil
	}
	return nil, fmt.Errorf("game result %T of player %d does not match eliminationGame=%v", result, result.PlayerId(), eliminationGame)
}

func marshalGame(game *Game) (map[string]any, error) {
	player1, err := marshalResult(game.Player1, game.EliminationGame)
	if err != nil {
		return nil, err
	}
	player2, err := marshalResult(game.Player2, game.EliminationGame)
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"table":           game.Table,
		"player1":         player1,
		"player2":         player2,
		"eliminationGame": game.EliminationGame,
	}
	return result, nil
}

func (g *Game) MarshalJSON() ([]byte, error) {
	anymap, err := marshalGame(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(anymap)
}

// Encodes the tournament as JSON. An empty indent
// produces compact output.
func Encode(tournament *Tournament, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(tournament)
	}
	return json.MarshalIndent(tournament, "", indent)
}
