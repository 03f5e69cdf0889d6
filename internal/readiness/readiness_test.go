package readiness_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/readiness"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/stretchr/testify/assert"
)

func build(actions ...state.Action) state.AppState {
	s := state.Initial(2007, 2024, 50)
	for _, a := range actions {
		s, _ = state.Reduce(s, a)
	}
	return s
}

func TestNextStep(t *testing.T) {
	tests := []struct {
		name    string
		state   state.AppState
		message string
		ready   bool
	}{
		{"nothing selected", build(), readiness.MsgSelectChartType, false},
		{"stat type before chart type", build(state.UpdateStatType{StatType: state.StatReceiving}), readiness.MsgSelectChartType, false},
		{"chart only", build(state.UpdateChartType{ChartType: state.ChartBar}), readiness.MsgSelectStatType, false},
		{
			"bar without stat or player",
			build(state.UpdateChartType{ChartType: state.ChartBar}, state.UpdateStatType{StatType: state.StatReceiving}),
			readiness.MsgSelectStatAndPlayer, false,
		},
		{
			"bar without player",
			build(
				state.UpdateChartType{ChartType: state.ChartBar},
				state.UpdateStatType{StatType: state.StatReceiving},
				state.UpdatePrimaryStat{Stat: state.Set("yards")},
			),
			readiness.MsgSelectPlayer, false,
		},
		{
			"line without stat",
			build(
				state.UpdateChartType{ChartType: state.ChartLine},
				state.UpdateStatType{StatType: state.StatReceiving},
				state.UpdatePlayers{Players: []string{"", "Player A"}},
			),
			readiness.MsgSelectStat, false,
		},
		{
			"line ready",
			build(
				state.UpdateChartType{ChartType: state.ChartLine},
				state.UpdateStatType{StatType: state.StatReceiving},
				state.UpdatePlayers{Players: []string{"Player A"}},
				state.UpdatePrimaryStat{Stat: state.Set("yards")},
			),
			readiness.MsgReady, true,
		},
		{
			"scatter without primary",
			build(state.UpdateChartType{ChartType: state.ChartScatter}, state.UpdateStatType{StatType: state.StatRushing}),
			readiness.MsgSelectPrimaryStat, false,
		},
		{
			"scatter with primary only",
			build(
				state.UpdateChartType{ChartType: state.ChartScatter},
				state.UpdateStatType{StatType: state.StatRushing},
				state.UpdatePrimaryStat{Stat: state.Set("yards")},
			),
			readiness.MsgSelectSecondaryStat, false,
		},
		{
			"scatter without aggregate",
			build(
				state.UpdateChartType{ChartType: state.ChartScatter},
				state.UpdateStatType{StatType: state.StatRushing},
				state.UpdatePrimaryStat{Stat: state.Set("yards")},
				state.UpdateSecondaryStat{Stat: state.Set("touchdowns")},
			),
			readiness.MsgSelectAggregate, false,
		},
		{
			"scatter ready without players",
			build(
				state.UpdateChartType{ChartType: state.ChartScatter},
				state.UpdateStatType{StatType: state.StatRushing},
				state.UpdatePrimaryStat{Stat: state.Set("yards")},
				state.UpdateSecondaryStat{Stat: state.Set("touchdowns")},
				state.UpdateAggregate{Aggregate: state.Set(state.AggregateTotal)},
			),
			readiness.MsgReady, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, ready := readiness.NextStep(tt.state)
			assert.Equal(t, tt.message, message)
			assert.Equal(t, tt.ready, ready)
		})
	}
}
