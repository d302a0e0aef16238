// Package tome reads the tournament export of the TOME tournament manager.
package tome

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// The only metadata version of the export format that is understood
const SupportedVersion = "1.0.5"

var (
	ErrUnsupportedVersion   = errors.New("unsupported metadataVersion")
	ErrMissingEntityGroup   = errors.New("missing entity group")
	ErrNoSwissTournament    = errors.New("no swiss tournament found")
	ErrAmbiguousSwiss       = errors.New("more than one swiss tournament found")
	ErrMultipleEliminations = errors.New("more than one elimination tournament found")
	ErrMalformed            = errors.New("malformed record")
)

// An Export holds all records of a decoded export file.
type Export struct {
	MetadataVersion string

	Tournaments       []*Tournament
	Matches           []*Match
	Participants      []*Participant
	MatchParticipants []*MatchParticipant
}

type entityGroup[T any] struct {
	Entities []T `json:"entities"`
}

type rawExport struct {
	MetadataVersion *string `json:"metadataVersion"`
	EntityGroupMap  *struct {
		Tournaments       *entityGroup[*Tournament]       `json:"Tournament:#"`
		Matches           *entityGroup[*Match]            `json:"Match:#"`
		MatchParticipants *entityGroup[*MatchParticipant] `json:"MatchParticipant:#"`
		Participants      *entityGroup[*Participant]      `json:"Participant:#"`
	} `json:"entityGroupMap"`
}

// Decode parses the JSON part of an export and links the records.
func Decode(data []byte) (*Export, error) {
	var raw rawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("json decoding error: %w", err)
	}

	if raw.MetadataVersion == nil {
		return nil, fmt.Errorf("%w: no metadataVersion", ErrUnsupportedVersion)
	}
	if *raw.MetadataVersion != SupportedVersion {
		return nil, fmt.Errorf("%w %s", ErrUnsupportedVersion, *raw.MetadataVersion)
	}

	groups := raw.EntityGroupMap
	switch {
	case groups == nil:
		return nil, fmt.Errorf("%w: entityGroupMap", ErrMissingEntityGroup)
	case groups.Tournaments == nil:
		return nil, fmt.Errorf("%w: Tournament:#", ErrMissingEntityGroup)
	case groups.Matches == nil:
		return nil, fmt.Errorf("%w: Match:#", ErrMissingEntityGroup)
	case groups.MatchParticipants == nil:
		return nil, fmt.Errorf("%w: MatchParticipant:#", ErrMissingEntityGroup)
	case groups.Participants == nil:
		return nil, fmt.Errorf("%w: Participant:#", ErrMissingEntityGroup)
	}

	for name, ok := range map[string]bool{
		"Tournament:#":       noNil(groups.Tournaments.Entities),
		"Match:#":            noNil(groups.Matches.Entities),
		"MatchParticipant:#": noNil(groups.MatchParticipants.Entities),
		"Participant:#":      noNil(groups.Participants.Entities),
	} {
		if !ok {
			return nil, fmt.Errorf("%w: null entity in %s", ErrMalformed, name)
		}
	}

	export := NewExport(
		*raw.MetadataVersion,
		groups.Tournaments.Entities,
		groups.Matches.Entities,
		groups.Participants.Entities,
		groups.MatchParticipants.Entities,
	)

	return export, nil
}

func noNil[T any](entities []*T) bool {
	return !slices.Contains(entities, nil)
}

// Checks that every one of the fields is present in the JSON
// object and not null.
func requireFields(data []byte, record string, fields []string) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, record, err)
	}
	for _, field := range fields {
		value, ok := keys[field]
		if !ok || string(value) == "null" {
			return fmt.Errorf("%w: %s without %s", ErrMalformed, record, field)
		}
	}
	return nil
}

// Creates an Export from the given records and links each
// tournament to the records that reference it.
func NewExport(
	version string,
	tournaments []*Tournament,
	matches []*Match,
	participants []*Participant,
	matchParticipants []*MatchParticipant,
) *Export {
	export := &Export{
		MetadataVersion:   version,
		Tournaments:       tournaments,
		Matches:           matches,
		Participants:      participants,
		MatchParticipants: matchParticipants,
	}

	for _, t := range tournaments {
		t.link(matches, participants, matchParticipants)
	}

	return export
}

// Returns the one tournament without a parent
func (e *Export) Swiss() (*Tournament, error) {
	var swiss *Tournament
	for _, t := range e.Tournaments {
		if t.IsElimination() {
			continue
		}
		if swiss != nil {
			return nil, ErrAmbiguousSwiss
		}
		swiss = t
	}

	if swiss == nil {
		return nil, ErrNoSwissTournament
	}
	return swiss, nil
}

// Returns the elimination tournament or nil when the
// event had no cut.
func (e *Export) Elimination() (*Tournament, error) {
	var elimination *Tournament
	for _, t := range e.Tournaments {
		if !t.IsElimination() {
			continue
		}
		if elimination != nil {
			return nil, ErrMultipleEliminations
		}
		elimination = t
	}
	return elimination, nil
}
