package importer

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const metricsNamespace = "zone_importer"

// Stats are the counters of an import run.
type Stats struct {
	ZonesCreated    int
	IncludesCreated int
	RecordsCreated  int
	EdgesCreated    int
	Skipped         int
	RecordsSkipped  int
	Errors          int
}

// Success reports whether the run finished without errors.
func (s Stats) Success() bool {
	return s.Errors == 0
}

// metrics mirrors Stats as Prometheus counters on a private registry.
type metrics struct {
	registry *prometheus.Registry

	zones    prometheus.Counter
	includes prometheus.Counter
	records  prometheus.Counter
	edges    prometheus.Counter
	skipped  prometheus.Counter
	rskipped prometheus.Counter
	errs     prometheus.Counter
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	})
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		zones:    counter("zones_created_total", "Master zones created."),
		includes: counter("includes_created_total", "Include files created."),
		records:  counter("records_created_total", "Records created."),
		edges:    counter("include_edges_total", "Include edges asserted."),
		skipped:  counter("zones_skipped_total", "Zones skipped because they already exist."),
		rskipped: counter("records_skipped_total", "Out-of-origin lines that could not be recovered."),
		errs:     counter("errors_total", "Errors of any kind."),
	}

	m.registry.MustRegister(m.zones, m.includes, m.records, m.edges, m.skipped, m.rskipped, m.errs)

	return m
}

func (im *Importer) zoneCreated() {
	im.stats.ZonesCreated++
	im.metrics.zones.Inc()
}

func (im *Importer) includeCreated() {
	im.stats.IncludesCreated++
	im.metrics.includes.Inc()
}

func (im *Importer) recordCreated() {
	im.stats.RecordsCreated++
	im.metrics.records.Inc()
}

func (im *Importer) edgeCreated() {
	im.stats.EdgesCreated++
	im.metrics.edges.Inc()
}

func (im *Importer) zoneSkipped() {
	im.stats.Skipped++
	im.metrics.skipped.Inc()
}

func (im *Importer) recordSkipped() {
	im.stats.RecordsSkipped++
	im.metrics.rskipped.Inc()
}

func (im *Importer) failed() {
	im.stats.Errors++
	im.metrics.errs.Inc()
}

// Stats returns the counters accumulated so far.
func (im *Importer) Stats() Stats {
	return im.stats
}

// WriteMetrics writes the counters to path in the Prometheus text format.
func (im *Importer) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, im.metrics.registry); err != nil {
		return errors.Wrap(err, "write metrics file")
	}

	return nil
}

// LogStats logs the counters of the run.
func (im *Importer) LogStats() {
	s := im.stats

	ev := log.Info()
	if !s.Success() {
		ev = log.Warn()
	}

	ev.Int("zones_created", s.ZonesCreated).
		Int("includes_created", s.IncludesCreated).
		Int("records_created", s.RecordsCreated).
		Int("include_edges", s.EdgesCreated).
		Int("skipped", s.Skipped).
		Int("records_skipped", s.RecordsSkipped).
		Int("errors", s.Errors).
		Msg("import statistics")
}
