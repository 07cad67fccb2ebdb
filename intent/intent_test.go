package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   model.IntentKind
		sortBy string
		pnr    string
	}{
		{name: "fastest", text: "fastest train to NDLS", kind: model.IntentSearchRefinement, sortBy: model.SortDuration},
		{name: "cheapest", text: "cheapest option to BPL", kind: model.IntentSearchRefinement, sortBy: model.SortFare},
		{name: "pnr wins over keywords", text: "track pnr 4567891234 please, fastest", kind: model.IntentPNRLookup, pnr: "4567891234"},
		{name: "pnr only", text: "track pnr 4567891234 please", kind: model.IntentPNRLookup, pnr: "4567891234"},
		{name: "fastest wins over cheapest", text: "Cheapest or FASTEST?", kind: model.IntentSearchRefinement, sortBy: model.SortDuration},
		{name: "quickest", text: "quickest way home", kind: model.IntentSearchRefinement, sortBy: model.SortDuration},
		{name: "budget", text: "something on a budget", kind: model.IntentSearchRefinement, sortBy: model.SortFare},
		{name: "lowest fare", text: "Lowest fare please", kind: model.IntentSearchRefinement, sortBy: model.SortFare},
		{name: "general", text: "hello", kind: model.IntentGeneral},
		{name: "short number is not a pnr", text: "train 12951", kind: model.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, model.IntentContext{})
			assert.Equal(t, tt.kind, got.Kind)
			assert.NotEmpty(t, got.Message)
			switch tt.kind {
			case model.IntentSearchRefinement:
				require.NotNil(t, got.Search)
				assert.Equal(t, tt.sortBy, got.Search.SortBy)
				assert.Nil(t, got.PNR)
				assert.Nil(t, got.General)
			case model.IntentPNRLookup:
				require.NotNil(t, got.PNR)
				assert.Equal(t, tt.pnr, got.PNR.PNR)
				assert.Nil(t, got.Search)
			case model.IntentGeneral:
				require.NotNil(t, got.General)
				assert.NotEmpty(t, got.General.Suggestions)
				assert.LessOrEqual(t, len(got.General.Suggestions), 3)
			}
		})
	}
}

func TestClassify_Stations(t *testing.T) {
	got := Classify("fastest train to NDLS", model.IntentContext{})
	require.NotNil(t, got.Search)
	assert.Equal(t, "NDLS", got.Search.From)
	assert.Equal(t, "NDLS", got.Search.To)
	assert.Equal(t, "3A", got.Search.Class)
	assert.Equal(t, "GENERAL", got.Search.Quota)

	got = Classify("cheapest option", model.IntentContext{})
	require.NotNil(t, got.Search)
	assert.Equal(t, "NDLS", got.Search.From)
	assert.Equal(t, "BPL", got.Search.To)
	assert.Equal(t, "SL", got.Search.Class)

	got = Classify("cheap seats", model.IntentContext{From: "HBJ", To: "CSTM"})
	require.NotNil(t, got.Search)
	assert.Equal(t, "HBJ", got.Search.From)
	assert.Equal(t, "CSTM", got.Search.To)

	got = Classify("fastest from AGC to GWL", model.IntentContext{From: "HBJ", To: "CSTM"})
	require.NotNil(t, got.Search)
	assert.Equal(t, "AGC", got.Search.From)
	assert.Equal(t, "GWL", got.Search.To)

	// lower-case words after "to" are places, not codes
	got = Classify("fastest train to mumbai", model.IntentContext{})
	require.NotNil(t, got.Search)
	assert.Equal(t, "CSTM", got.Search.To)
}

func TestSuggestions_ReturnsCopy(t *testing.T) {
	s := Suggestions()
	require.Len(t, s, 5)
	s[0] = "changed"
	assert.Equal(t, "Find fastest train to Mumbai tomorrow", Suggestions()[0])
}
