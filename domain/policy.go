package domain

// DecisionSource names the pipeline stage that produced a PolicyResult.
type DecisionSource string

const (
	SourceGuardrail DecisionSource = "guardrail"
	SourceSemantic  DecisionSource = "semantic"
	SourceRanker    DecisionSource = "ranker"
	SourceDefault   DecisionSource = "default"
)

// PolicyResult is the decision for one application group.
type PolicyResult struct {
	PriorityClass PriorityClass  `json:"priority_class"`
	Reason        string         `json:"reason"`
	Source        DecisionSource `json:"source"`
}

// RankingResult is a batch relative ranking of one application group.
type RankingResult struct {
	Score      float64 `json:"score"`
	Percentile float64 `json:"percentile"`
	Rank       int     `json:"rank"`
}

// Ranker ranks the whole batch of application groups in one call.
// Percentiles are relative to the given batch.
type Ranker interface {
	Rank(appGroups []AppGroupRecord, snapshot *Snapshot) map[string]RankingResult
}
