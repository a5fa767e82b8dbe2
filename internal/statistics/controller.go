package statistics

import (
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/markusressel/jointdrive/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	// rig id -> controller
	controllers map[string]controller.JointController

	ticks         *prometheus.Desc
	rebuilds      *prometheus.Desc
	teleports     *prometheus.Desc
	drivenJoints  *prometheus.Desc
	skippedJoints *prometheus.Desc
	unresolved    *prometheus.Desc
	state         *prometheus.Desc
}

func NewControllerCollector(controllers map[string]controller.JointController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ticks"),
			"Number of update cycles run by this controller",
			[]string{"rig"}, nil,
		),
		rebuilds: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "rebuilds"),
			"Number of binding rebuilds caused by configuration edits or unresolved joints",
			[]string{"rig"}, nil,
		),
		teleports: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "teleports"),
			"Number of teleports handled by this controller",
			[]string{"rig"}, nil,
		),
		drivenJoints: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "driven_joints"),
			"Number of joints a torque was applied to in the last tick",
			[]string{"rig"}, nil,
		),
		skippedJoints: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "skipped_joints"),
			"Number of joints skipped in the last tick",
			[]string{"rig"}, nil,
		),
		unresolved: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "unresolved_joints"),
			"Number of joints without a resolved physics binding",
			[]string{"rig"}, nil,
		),
		state: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "state"),
			"Lifecycle state of the controller (0=uninitialized, 1=dirty, 2=bound, 3=destroyed)",
			[]string{"rig"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.ticks
	ch <- collector.rebuilds
	ch <- collector.teleports
	ch <- collector.drivenJoints
	ch <- collector.skippedJoints
	ch <- collector.unresolved
	ch <- collector.state
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, rigId := range util.SortedKeys(collector.controllers) {
		stats := collector.controllers[rigId].GetStatistics()
		ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(stats.Ticks), rigId)
		ch <- prometheus.MustNewConstMetric(collector.rebuilds, prometheus.CounterValue, float64(stats.Rebuilds), rigId)
		ch <- prometheus.MustNewConstMetric(collector.teleports, prometheus.CounterValue, float64(stats.Teleports), rigId)
		ch <- prometheus.MustNewConstMetric(collector.drivenJoints, prometheus.GaugeValue, float64(stats.DrivenJoints), rigId)
		ch <- prometheus.MustNewConstMetric(collector.skippedJoints, prometheus.GaugeValue, float64(stats.SkippedJoints), rigId)
		ch <- prometheus.MustNewConstMetric(collector.unresolved, prometheus.GaugeValue, float64(stats.Unresolved), rigId)
		ch <- prometheus.MustNewConstMetric(collector.state, prometheus.GaugeValue, float64(stats.State), rigId)
	}
}
