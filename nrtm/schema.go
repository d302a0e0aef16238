// Package nrtm builds the tournament document that is read by the
// NRTM tournament reporting app.
package nrtm

import (
	"github.com/gereons/tome2nrtm/core"
)

// The side a player plays in a game
type Role string

const (
	RoleRunner Role = "runner"
	RoleCorp   Role = "corp"
)

type Player struct {
	Id             int    `json:"id"`
	Name           string `json:"name"`
	RunnerFaction  string `json:"runnerFaction"`
	RunnerIdentity string `json:"runnerIdentity"`
	CorpFaction    string `json:"corpFaction"`
	CorpIdentity   string `json:"corpIdentity"`
	Forfeit        bool   `json:"forfeit"`

	Rank                       int         `json:"rank"`
	MatchPoints                int         `json:"matchPoints"`
	StrengthOfSchedule         core.Metric `json:"strengthOfSchedule"`
	ExtendedStrengthOfSchedule core.Metric `json:"extendedStrengthOfSchedule"`
}

func newPlayer(standing *core.Standing) *Player {
	p := standing.Participant
	return &Player{
		Id:             p.Pk,
		Name:           p.Name(),
		RunnerFaction:  p.RunnerFaction,
		RunnerIdentity: p.RunnerIdentity,
		CorpFaction:    p.CorpFaction,
		CorpIdentity:   p.CorpIdentity,
		Forfeit:        !p.IsActive,

		Rank:                       standing.Rank,
		MatchPoints:                standing.Score,
		StrengthOfSchedule:         standing.StrengthOfSchedule,
		ExtendedStrengthOfSchedule: standing.ExtendedStrengthOfSchedule,
	}
}

type EliminationPlayer struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	// Place in the elimination bracket
	Rank int `json:"rank"`
	// Place in the swiss rounds
	Seed int `json:"seed"`
}

// The result of one player in a game.
// It is either a SwissResult or an EliminationResult.
type Result interface {
	PlayerId() int
}

type SwissResult struct {
	Id          int `json:"id"`
	RunnerScore int `json:"runnerScore"`
	CorpScore   int `json:"corpScore"`
}

func (r SwissResult) PlayerId() int {
	return r.Id
}

type EliminationResult struct {
	Id     int  `json:"id"`
	Role   Role `json:"role"`
	Winner bool `json:"winner"`
}

func (r EliminationResult) PlayerId() int {
	return r.Id
}

// A Game is one match at one table
type Game struct {
	Table           int
	Player1         Result
	Player2         Result
	EliminationGame bool
}

func NewSwissGame(table int, player1, player2 SwissResult) *Game {
	return &Game{Table: table, Player1: player1, Player2: player2}
}

func NewEliminationGame(table int, player1, player2 EliminationResult) *Game {
	return &Game{Table: table, Player1: player1, Player2: player2, EliminationGame: true}
}

// A Round is the list of games played in parallel
type Round []*Game

type Tournament struct {
	Name string `json:"name"`

	Players            []*Player            `json:"players"`
	EliminationPlayers []*EliminationPlayer `json:"eliminationPlayers"`
	Rounds             []Round              `json:"rounds"`

	PreliminaryRounds int `json:"preliminaryRounds"`
	CutToTop          int `json:"cutToTop"`
}
