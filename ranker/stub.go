package ranker

import "github.com/Gthulhu/smoothtask/domain"

// StubRanker is a deterministic heuristic ranker used when no model is available.
type StubRanker struct{}

func NewStubRanker() *StubRanker {
	return &StubRanker{}
}

func (r *StubRanker) Rank(appGroups []domain.AppGroupRecord, snapshot *domain.Snapshot) map[string]domain.RankingResult {
	scored := make([]scoredGroup, 0, len(appGroups))
	for i := range appGroups {
		scored = append(scored, scoredGroup{
			id:    appGroups[i].AppGroupID,
			score: stubScore(&appGroups[i]),
		})
	}
	return rankScores(scored)
}

func stubScore(g *domain.AppGroupRecord) float64 {
	score := 0.5
	if g.IsFocusedGroup {
		score += 0.4
	}
	if g.HasGUIWindow {
		score += 0.2
	}
	if g.CPUShare() > 0.3 {
		score += 0.1
	}
	return clamp01(score)
}
