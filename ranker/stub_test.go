package ranker

import (
	"testing"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestStubRankerOrdersByHeuristicScore(t *testing.T) {
	groups := []domain.AppGroupRecord{
		{AppGroupID: "batch", TotalCPUShare: ptr(0.5)},
		{AppGroupID: "editor", HasGUIWindow: true, IsFocusedGroup: true},
		{AppGroupID: "player", HasGUIWindow: true},
	}

	results := NewStubRanker().Rank(groups, &domain.Snapshot{AppGroups: groups})
	require.Len(t, results, 3)

	editor := results["editor"]
	assert.InDelta(t, 1.0, editor.Score, 1e-9, "0.5+0.4+0.2 is clamped to 1")
	assert.Equal(t, 1, editor.Rank)
	assert.InDelta(t, 1.0, editor.Percentile, 1e-9)

	player := results["player"]
	assert.InDelta(t, 0.7, player.Score, 1e-9)
	assert.Equal(t, 2, player.Rank)
	assert.InDelta(t, 0.5, player.Percentile, 1e-9)

	batch := results["batch"]
	assert.InDelta(t, 0.6, batch.Score, 1e-9)
	assert.Equal(t, 3, batch.Rank)
	assert.InDelta(t, 0.0, batch.Percentile, 1e-9)
}

func TestStubRankerSingleGroup(t *testing.T) {
	groups := []domain.AppGroupRecord{{AppGroupID: "only"}}
	results := NewStubRanker().Rank(groups, nil)
	assert.Equal(t, domain.RankingResult{Score: 0.5, Percentile: 1.0, Rank: 1}, results["only"])
}

func TestStubRankerTiesKeepInputOrder(t *testing.T) {
	groups := []domain.AppGroupRecord{{AppGroupID: "a"}, {AppGroupID: "b"}, {AppGroupID: "c"}}
	results := NewStubRanker().Rank(groups, nil)
	assert.Equal(t, 1, results["a"].Rank)
	assert.Equal(t, 2, results["b"].Rank)
	assert.Equal(t, 3, results["c"].Rank)
}

func TestStubRankerEmptyBatch(t *testing.T) {
	assert.Empty(t, NewStubRanker().Rank(nil, nil))
}
