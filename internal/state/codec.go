package state

import (
	"encoding/json"
	"fmt"
)

// DecodeAction maps a wire action onto its typed form. Payload keys that are
// absent stay absent, so the reducer can tell them apart from an explicit
// null. Unrecognised kinds decode to Unknown. An error is returned only for
// a payload that is not valid JSON for its kind.
func DecodeAction(kind string, payload json.RawMessage) (Action, error) {
	if len(payload) == 0 || string(payload) == "null" {
		payload = json.RawMessage("{}")
	}

	var (
		a   Action
		err error
	)
	switch kind {
	case TypeUpdateChartType:
		var v UpdateChartType
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateStatType:
		var v UpdateStatType
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateStartYear:
		var v UpdateStartYear
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateEndYear:
		var v UpdateEndYear
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateAvailableYears:
		var v UpdateAvailableYears
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdatePlayers:
		var v UpdatePlayers
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeAddPlayer:
		a = AddPlayer{}
	case TypeRemovePlayer:
		a, err = decodeRemovePlayer(payload)
	case TypeUpdatePrimaryStat:
		var v UpdatePrimaryStat
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateSecondaryStat:
		var v UpdateSecondaryStat
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateAggregate:
		var v UpdateAggregate
		err = json.Unmarshal(payload, &v)
		a = v
	case TypeUpdateNumberOfPoints:
		var v UpdateNumberOfPoints
		err = json.Unmarshal(payload, &v)
		a = v
	default:
		return Unknown{Kind: kind}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return a, nil
}

// decodeRemovePlayer accepts {"player": name} or the list form {"players": [name]}
func decodeRemovePlayer(payload json.RawMessage) (Action, error) {
	var v struct {
		Player  Field[string] `json:"player"`
		Players []string      `json:"players"`
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	if !v.Player.Present() && len(v.Players) > 0 {
		v.Player = Set(v.Players[0])
	}
	return RemovePlayer{Player: v.Player}, nil
}
