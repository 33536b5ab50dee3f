package service

import (
	"sync"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "smoothtask"

// MetricCollector exposes cycle outcomes. Values are snapshotted under a lock
// and emitted as const metrics labelled with the machine id.
type MetricCollector struct {
	machineID string

	mu           sync.Mutex
	cycles       float64
	failedCycles float64
	applied      float64
	skipped      float64
	errors       float64
	classChanges float64
	loadLevel    float64
	cycleSeconds float64
	adjustments  float64
	changedPIDs  float64
	classCounts  map[domain.PriorityClass]float64
	dryRun       bool

	cyclesDesc       *prometheus.Desc
	failedDesc       *prometheus.Desc
	appliedDesc      *prometheus.Desc
	skippedDesc      *prometheus.Desc
	errorsDesc       *prometheus.Desc
	classChangesDesc *prometheus.Desc
	loadDesc         *prometheus.Desc
	durationDesc     *prometheus.Desc
	adjustmentsDesc  *prometheus.Desc
	changedDesc      *prometheus.Desc
	groupsDesc       *prometheus.Desc
	dryRunDesc       *prometheus.Desc
}

func NewMetricCollector(machineID string) *MetricCollector {
	labels := prometheus.Labels{"machine_id": machineID}
	desc := func(name, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricNamespace, "", name), help, variable, labels)
	}
	return &MetricCollector{
		machineID:        machineID,
		classCounts:      map[domain.PriorityClass]float64{},
		cyclesDesc:       desc("cycles_total", "Scheduling cycles completed."),
		failedDesc:       desc("cycles_failed_total", "Scheduling cycles aborted before planning."),
		appliedDesc:      desc("adjustments_applied_total", "Adjustments pushed to the OS."),
		skippedDesc:      desc("adjustments_skipped_hysteresis_total", "Adjustments held back by hysteresis."),
		errorsDesc:       desc("adjustment_errors_total", "Adjustments with at least one failed OS operation."),
		classChangesDesc: desc("group_class_changes_total", "Application groups whose class changed between cycles."),
		loadDesc:         desc("load_level", "Combined system load level of the last cycle."),
		durationDesc:     desc("cycle_duration_seconds", "Duration of the last cycle."),
		adjustmentsDesc:  desc("planned_adjustments", "Adjustments planned in the last cycle."),
		changedDesc:      desc("plan_changed_pids", "Processes whose planned targets differ from the previous cycle."),
		groupsDesc:       desc("app_groups", "Application groups per priority class in the last cycle.", "class"),
		dryRunDesc:       desc("dry_run", "1 when adjustments are planned but not applied."),
	}
}

func (c *MetricCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cyclesDesc
	ch <- c.failedDesc
	ch <- c.appliedDesc
	ch <- c.skippedDesc
	ch <- c.errorsDesc
	ch <- c.classChangesDesc
	ch <- c.loadDesc
	ch <- c.durationDesc
	ch <- c.adjustmentsDesc
	ch <- c.changedDesc
	ch <- c.groupsDesc
	ch <- c.dryRunDesc
}

func (c *MetricCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.cyclesDesc, prometheus.CounterValue, c.cycles)
	ch <- prometheus.MustNewConstMetric(c.failedDesc, prometheus.CounterValue, c.failedCycles)
	ch <- prometheus.MustNewConstMetric(c.appliedDesc, prometheus.CounterValue, c.applied)
	ch <- prometheus.MustNewConstMetric(c.skippedDesc, prometheus.CounterValue, c.skipped)
	ch <- prometheus.MustNewConstMetric(c.errorsDesc, prometheus.CounterValue, c.errors)
	ch <- prometheus.MustNewConstMetric(c.classChangesDesc, prometheus.CounterValue, c.classChanges)
	ch <- prometheus.MustNewConstMetric(c.loadDesc, prometheus.GaugeValue, c.loadLevel)
	ch <- prometheus.MustNewConstMetric(c.durationDesc, prometheus.GaugeValue, c.cycleSeconds)
	ch <- prometheus.MustNewConstMetric(c.adjustmentsDesc, prometheus.GaugeValue, c.adjustments)
	ch <- prometheus.MustNewConstMetric(c.changedDesc, prometheus.GaugeValue, c.changedPIDs)
	for _, class := range domain.AllClasses() {
		ch <- prometheus.MustNewConstMetric(c.groupsDesc, prometheus.GaugeValue, c.classCounts[class], class.String())
	}
	dryRun := 0.0
	if c.dryRun {
		dryRun = 1
	}
	ch <- prometheus.MustNewConstMetric(c.dryRunDesc, prometheus.GaugeValue, dryRun)
}

// ObserveCycle records a completed cycle.
func (c *MetricCollector) ObserveCycle(report *domain.CycleReport, classChanges int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycles++
	c.applied += float64(report.Result.Applied)
	c.skipped += float64(report.Result.SkippedHysteresis)
	c.errors += float64(report.Result.Errors)
	c.classChanges += float64(classChanges)
	c.loadLevel = report.LoadLevel
	c.cycleSeconds = report.Duration.Seconds()
	c.adjustments = float64(len(report.Adjustments))
	c.changedPIDs = float64(report.ChangedPIDs)
	c.dryRun = report.DryRun
	c.classCounts = map[domain.PriorityClass]float64{}
	for _, decision := range report.Decisions {
		c.classCounts[decision.PriorityClass]++
	}
}

func (c *MetricCollector) ObserveFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedCycles++
}
