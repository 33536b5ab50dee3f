package rest

import (
	"net/http"
	"sort"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
)

type Decision struct {
	AppGroupID    string `json:"app_group_id"`
	PriorityClass string `json:"priority_class"`
	Reason        string `json:"reason"`
	Source        string `json:"source"`
}

type DecisionsResponse struct {
	CycleID    string     `json:"cycle_id"`
	SnapshotID uint64     `json:"snapshot_id"`
	StartedAt  time.Time  `json:"started_at"`
	LoadLevel  float64    `json:"load_level"`
	Decisions  []Decision `json:"decisions"`
}

func (h *Handler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.Svc.LatestReport(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	resp := DecisionsResponse{
		CycleID:    report.CycleID,
		SnapshotID: report.SnapshotID,
		StartedAt:  report.StartedAt,
		LoadLevel:  report.LoadLevel,
		Decisions:  make([]Decision, 0, len(report.Decisions)),
	}
	for id, decision := range report.Decisions {
		resp.Decisions = append(resp.Decisions, Decision{
			AppGroupID:    id,
			PriorityClass: decision.PriorityClass.String(),
			Reason:        decision.Reason,
			Source:        string(decision.Source),
		})
	}
	sort.Slice(resp.Decisions, func(i, j int) bool {
		return resp.Decisions[i].AppGroupID < resp.Decisions[j].AppGroupID
	})
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}

type AdjustmentsResponse struct {
	CycleID     string                      `json:"cycle_id"`
	DryRun      bool                        `json:"dry_run"`
	PlanHash    string                      `json:"plan_hash"`
	ChangedPIDs int                         `json:"changed_pids"`
	Result      domain.ApplyResult          `json:"result"`
	Adjustments []domain.PriorityAdjustment `json:"adjustments"`
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.Svc.LatestReport(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	resp := AdjustmentsResponse{
		CycleID:     report.CycleID,
		DryRun:      report.DryRun,
		PlanHash:    report.PlanHash,
		ChangedPIDs: report.ChangedPIDs,
		Result:      report.Result,
		Adjustments: report.Adjustments,
	}
	if resp.Adjustments == nil {
		resp.Adjustments = []domain.PriorityAdjustment{}
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&resp))
}

type PriorityClassInfo struct {
	Name   string                `json:"name"`
	Params domain.PriorityParams `json:"params"`
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes := make([]PriorityClassInfo, 0, len(domain.AllClasses()))
	for _, class := range domain.AllClasses() {
		classes = append(classes, PriorityClassInfo{Name: class.String(), Params: class.Params()})
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, NewSuccessResponse(&classes))
}

func (h *Handler) ListHysteresis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.Svc.HysteresisEntries(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	if entries == nil {
		entries = []domain.HysteresisEntry{}
	}
	h.JSONResponse(ctx, w, http.StatusOK, NewSuccessResponse(&entries))
}
