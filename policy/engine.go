package policy

import (
	"context"
	"fmt"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
)

// Engine assigns a priority class to every application group of a snapshot:
// guardrails first, then semantic rules, then the ranker percentile, then a default.
type Engine struct {
	thresholds config.ThresholdsConfig
	ranker     domain.Ranker
	scaler     *DynamicPriorityScaler
}

// NewEngine builds a rules-only engine when ranker is nil and a hybrid one otherwise.
// A nil scaler disables load based rescaling.
func NewEngine(thresholds config.ThresholdsConfig, ranker domain.Ranker, scaler *DynamicPriorityScaler) *Engine {
	return &Engine{
		thresholds: thresholds,
		ranker:     ranker,
		scaler:     scaler,
	}
}

func (e *Engine) Mode() config.PolicyMode {
	if e.ranker == nil {
		return config.PolicyModeRulesOnly
	}
	return config.PolicyModeHybrid
}

func (e *Engine) Scaler() *DynamicPriorityScaler {
	return e.scaler
}

// EvaluateSnapshot returns one result per application group. It never fails.
func (e *Engine) EvaluateSnapshot(ctx context.Context, snapshot *domain.Snapshot) map[string]domain.PolicyResult {
	results := make(map[string]domain.PolicyResult, len(snapshot.AppGroups))
	if len(snapshot.AppGroups) == 0 {
		return results
	}

	var rankings map[string]domain.RankingResult
	if e.ranker != nil {
		rankings = e.ranker.Rank(snapshot.AppGroups, snapshot)
	}

	for i := range snapshot.AppGroups {
		group := &snapshot.AppGroups[i]
		var ranking *domain.RankingResult
		if r, ok := rankings[group.AppGroupID]; ok {
			ranking = &r
		}
		results[group.AppGroupID] = e.EvaluateGroup(group, snapshot, ranking)
	}

	if e.scaler != nil {
		e.applyDynamicScaling(ctx, snapshot, results)
	}
	return results
}

// EvaluateGroup runs the rule pipeline for one group without load scaling.
func (e *Engine) EvaluateGroup(group *domain.AppGroupRecord, snapshot *domain.Snapshot, ranking *domain.RankingResult) domain.PolicyResult {
	procs := snapshot.ProcessesOf(group.AppGroupID)

	if anyProcess(procs, isSystemProcess) {
		return domain.PolicyResult{PriorityClass: domain.PriorityNormal, Reason: reasonSystemProcess, Source: domain.SourceGuardrail}
	}
	if hasAudioXrun(snapshot) && anyProcess(procs, (*domain.ProcessRecord).IsActiveAudioClient) {
		return domain.PolicyResult{PriorityClass: domain.PriorityInteractive, Reason: reasonAudioXrun, Source: domain.SourceGuardrail}
	}

	if group.IsFocusedGroup && (anyProcess(procs, (*domain.ProcessRecord).IsActiveAudioClient) || group.HasTag("game")) {
		return domain.PolicyResult{PriorityClass: domain.PriorityCritInteractive, Reason: reasonFocusedAudio, Source: domain.SourceSemantic}
	}
	if group.IsFocusedGroup && group.HasGUIWindow {
		return domain.PolicyResult{PriorityClass: domain.PriorityInteractive, Reason: reasonFocusedGUI, Source: domain.SourceSemantic}
	}
	if isActiveTerminal(procs, snapshot, e.thresholds) {
		return domain.PolicyResult{PriorityClass: domain.PriorityInteractive, Reason: reasonActiveTerminal, Source: domain.SourceSemantic}
	}
	if snapshot.Global.UserActive && isBackgroundTask(group) {
		return domain.PolicyResult{PriorityClass: domain.PriorityBackground, Reason: reasonBackgroundTask, Source: domain.SourceSemantic}
	}
	if isNoisyNeighbour(group, snapshot, e.thresholds) {
		return domain.PolicyResult{PriorityClass: domain.PriorityBackground, Reason: reasonNoisyNeighbour, Source: domain.SourceSemantic}
	}

	if ranking != nil {
		return domain.PolicyResult{
			PriorityClass: ClassForPercentile(ranking.Percentile, e.thresholds),
			Reason:        fmt.Sprintf("ranker: percentile=%.2f score=%.2f rank=%d", ranking.Percentile, ranking.Score, ranking.Rank),
			Source:        domain.SourceRanker,
		}
	}

	return domain.PolicyResult{PriorityClass: domain.PriorityNormal, Reason: reasonDefault, Source: domain.SourceDefault}
}

// applyDynamicScaling rescales every non-guardrail result and appends the
// transition to the reason of each changed result.
func (e *Engine) applyDynamicScaling(ctx context.Context, snapshot *domain.Snapshot, results map[string]domain.PolicyResult) {
	base := make(map[string]domain.PriorityClass, len(results))
	for id, r := range results {
		if r.Source == domain.SourceGuardrail {
			continue
		}
		base[id] = r.PriorityClass
	}
	if len(base) == 0 {
		return
	}

	level := e.scaler.LoadLevel(snapshot.Global)
	scaled := e.scaler.ScalePriorities(base, snapshot.Global)
	for id, class := range scaled {
		old := base[id]
		if class == old {
			continue
		}
		r := results[id]
		r.PriorityClass = class
		r.Reason = fmt.Sprintf("%s; %s: %s -> %s (load=%.2f)", r.Reason, dynamicScalingMarker, old, class, level)
		results[id] = r
		logger.Logger(ctx).Debug().Msgf("group %s scaled %s -> %s at load %.2f", id, old, class, level)
	}
}
