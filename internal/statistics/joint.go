package statistics

import (
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const jointSubsystem = "joint"

type JointCollector struct {
	controller controller.JointController

	impulse       *prometheus.Desc
	torqueAvg     *prometheus.Desc
	integralError *prometheus.Desc
	stiffness     *prometheus.Desc
	simulating    *prometheus.Desc
	resolved      *prometheus.Desc
	settled       *prometheus.Desc
}

func NewJointCollector(c controller.JointController) *JointCollector {
	return &JointCollector{
		controller: c,
		impulse: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "impulse"),
			"Magnitude of the angular impulse applied in the last tick",
			[]string{"id"}, nil,
		),
		torqueAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "torque_avg"),
			"Average angular impulse magnitude over the torque window",
			[]string{"id"}, nil,
		),
		integralError: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "integral_error"),
			"Magnitude of the accumulated integral error",
			[]string{"id"}, nil,
		),
		stiffness: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "stiffness_multiplier"),
			"Configured stiffness multiplier",
			[]string{"id"}, nil,
		),
		simulating: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "simulating"),
			"1 if the joint is simulated",
			[]string{"id"}, nil,
		),
		resolved: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "resolved"),
			"1 if the joint is bound to a physics body",
			[]string{"id"}, nil,
		),
		settled: prometheus.NewDesc(prometheus.BuildFQName(namespace, jointSubsystem, "settled"),
			"1 if the applied impulse did not change over the torque window",
			[]string{"id"}, nil,
		),
	}
}

func (collector *JointCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.impulse
	ch <- collector.torqueAvg
	ch <- collector.integralError
	ch <- collector.stiffness
	ch <- collector.simulating
	ch <- collector.resolved
	ch <- collector.settled
}

// Collect implements required collect function for all prometheus collectors
func (collector *JointCollector) Collect(ch chan<- prometheus.Metric) {
	for _, config := range collector.controller.Registry().Snapshot() {
		id := config.BodyName
		ch <- prometheus.MustNewConstMetric(collector.stiffness, prometheus.GaugeValue, config.StiffnessMultiplier, id)
		ch <- prometheus.MustNewConstMetric(collector.simulating, prometheus.GaugeValue, boolToFloat(config.SimulateEnabled), id)

		telemetry, ok := collector.controller.Telemetry(id)
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.impulse, prometheus.GaugeValue, telemetry.Impulse.Len(), id)
		ch <- prometheus.MustNewConstMetric(collector.torqueAvg, prometheus.GaugeValue, telemetry.TorqueAvg, id)
		ch <- prometheus.MustNewConstMetric(collector.integralError, prometheus.GaugeValue, telemetry.Evaluation.IntegralError.Len(), id)
		ch <- prometheus.MustNewConstMetric(collector.resolved, prometheus.GaugeValue, boolToFloat(telemetry.Resolved), id)
		ch <- prometheus.MustNewConstMetric(collector.settled, prometheus.GaugeValue, boolToFloat(telemetry.Settled), id)
	}
}
