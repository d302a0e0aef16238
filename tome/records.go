package tome

import (
	"encoding/json"
	"iter"
	"slices"
)

// The fields that every record must carry. The remaining
// fields are optional and decode as nil when they are absent.
var (
	tournamentFields  = []string{"pk", "format_pk", "settings_pk", "name", "current_round", "dashboard_count"}
	participantFields = []string{
		"pk", "faction", "identity", "faction2", "identity2",
		"seed", "reward_byes", "has_received_bye", "is_active", "tiebreaker",
	}
	matchFields            = []string{"pk", "round", "order_index"}
	matchParticipantFields = []string{"pk", "match_pk", "table_seat"}
)

// A Tournament is either the swiss phase of an event or its
// elimination bracket. The bracket references the swiss
// tournament with its ParentPk.
type Tournament struct {
	Pk             int    `json:"pk"`
	FormatPk       int    `json:"format_pk"`
	SettingsPk     int    `json:"settings_pk"`
	ParentPk       *int   `json:"parent_pk"`
	Name           string `json:"name"`
	CurrentRound   int    `json:"current_round"`
	CutSize        *int   `json:"cut_size"`
	DashboardCount int    `json:"dashboard_count"`

	// The records that reference this tournament.
	// They are filled in by the export after decoding.
	Matches           []*Match            `json:"-"`
	Participants      []*Participant      `json:"-"`
	MatchParticipants []*MatchParticipant `json:"-"`

	participantIndex map[int]*Participant
	seats            map[int][]*MatchParticipant
}

func (t *Tournament) UnmarshalJSON(data []byte) error {
	type tournament Tournament
	if err := requireFields(data, "tournament", tournamentFields); err != nil {
		return err
	}
	return json.Unmarshal(data, (*tournament)(t))
}

// A Participant is one player's entry in a tournament.
type Participant struct {
	Pk           int     `json:"pk"`
	TournamentPk *int    `json:"tournament_pk"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`

	RunnerFaction  string `json:"faction"`
	RunnerIdentity string `json:"identity"`
	CorpFaction    string `json:"faction2"`
	CorpIdentity   string `json:"identity2"`

	Seed           int  `json:"seed"`
	RewardByes     int  `json:"reward_byes"`
	HasReceivedBye bool `json:"has_received_bye"`

	// False when the player dropped from the tournament
	IsActive bool `json:"is_active"`

	// Random number that breaks ties when score, strength of
	// schedule and extended strength of schedule are equal
	Tiebreaker float64 `json:"tiebreaker"`
}

func (p *Participant) UnmarshalJSON(data []byte) error {
	type participant Participant
	if err := requireFields(data, "participant", participantFields); err != nil {
		return err
	}
	return json.Unmarshal(data, (*participant)(p))
}

// Name is the display name of the participant. It is the only key
// that joins participants of the swiss and the elimination tournament.
func (p *Participant) Name() string {
	if p.FirstName == nil || p.LastName == nil {
		return "n/a"
	}
	return *p.FirstName + " " + *p.LastName
}

type Match struct {
	Pk           int  `json:"pk"`
	TournamentPk *int `json:"tournament_pk"`
	Round        int  `json:"round"`

	// Table number minus one, -1 for a bye
	OrderIndex int `json:"order_index"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type match Match
	if err := requireFields(data, "match", matchFields); err != nil {
		return err
	}
	return json.Unmarshal(data, (*match)(m))
}

func (m *Match) IsBye() bool {
	return m.OrderIndex == -1
}

// A MatchParticipant seats a participant in a match and
// records the points they earned.
type MatchParticipant struct {
	Pk            int  `json:"pk"`
	ParticipantPk *int `json:"participant_pk"`
	MatchPk       int  `json:"match_pk"`
	PointsEarned  *int `json:"points_earned"`

	// 0 or 1
	TableSeat int `json:"table_seat"`
}

func (mp *MatchParticipant) UnmarshalJSON(data []byte) error {
	type matchParticipant MatchParticipant
	if err := requireFields(data, "match participant", matchParticipantFields); err != nil {
		return err
	}
	return json.Unmarshal(data, (*matchParticipant)(mp))
}

// Returns the participant with the given primary key or nil
// if it is not part of this tournament.
func (t *Tournament) Participant(pk int) *Participant {
	return t.participantIndex[pk]
}

// Returns the matches of the given round in export order
func (t *Tournament) RoundMatches(round int) []*Match {
	matches := make([]*Match, 0, len(t.Participants)/2+1)
	for _, m := range t.Matches {
		if m.Round == round {
			matches = append(matches, m)
		}
	}
	return matches
}

// Returns the match participants that are seated in the match
func (t *Tournament) Seats(match *Match) []*MatchParticipant {
	return t.seats[match.Pk]
}

// Iterates over all matches of the rounds 1 through CurrentRound
// together with their seats.
func (t *Tournament) EnumerateMatches() iter.Seq2[*Match, []*MatchParticipant] {
	iterator := func(yield func(m *Match, seats []*MatchParticipant) bool) {
		for round := 1; round <= t.CurrentRound; round += 1 {
			for _, m := range t.RoundMatches(round) {
				if !yield(m, t.Seats(m)) {
					return
				}
			}
		}
	}
	return iterator
}

func (t *Tournament) IsElimination() bool {
	return t.ParentPk != nil
}

func (t *Tournament) CutToTop() int {
	if t.CutSize == nil {
		return 0
	}
	return *t.CutSize
}

// Assigns the records that reference this tournament and
// builds the lookup indices.
func (t *Tournament) link(
	matches []*Match,
	participants []*Participant,
	matchParticipants []*MatchParticipant,
) {
	t.Matches = make([]*Match, 0)
	t.Participants = make([]*Participant, 0)
	t.MatchParticipants = make([]*MatchParticipant, 0)
	t.participantIndex = make(map[int]*Participant)
	t.seats = make(map[int][]*MatchParticipant)

	matchPks := make([]int, 0)
	for _, m := range matches {
		if m.TournamentPk != nil && *m.TournamentPk == t.Pk {
			t.Matches = append(t.Matches, m)
			matchPks = append(matchPks, m.Pk)
		}
	}

	for _, p := range participants {
		if p.TournamentPk != nil && *p.TournamentPk == t.Pk {
			t.Participants = append(t.Participants, p)
			t.participantIndex[p.Pk] = p
		}
	}

	for _, mp := range matchParticipants {
		if slices.Contains(matchPks, mp.MatchPk) {
			t.MatchParticipants = append(t.MatchParticipants, mp)
			t.seats[mp.MatchPk] = append(t.seats[mp.MatchPk], mp)
		}
	}
}
