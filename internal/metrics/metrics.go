// Package metrics holds the prometheus collectors of the reader. Every method
// is safe on a nil *Metrics, which is what a file opened without metrics uses.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	filesOpened    *prometheus.CounterVec
	segmentsParsed prometheus.Counter
	bytesRead      prometheus.Counter
	readDuration   *prometheus.HistogramVec
	stringIndex    *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg creates unregistered
// collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		filesOpened: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tdms_files_opened_total",
			Help: "Total number of TDMS files indexed, by whether the final segment was truncated.",
		}, []string{"truncated"}),
		segmentsParsed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "tdms_segments_parsed_total",
			Help: "Total number of segments parsed while indexing files.",
		}),
		bytesRead: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "tdms_raw_bytes_read_total",
			Help: "Total number of raw data bytes read from sources.",
		}),
		readDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tdms_read_duration_seconds",
			Help:    "Time spent serving value reads.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		stringIndex: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tdms_string_index_lookups_total",
			Help: "String offset index cache lookups, by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) FileOpened(truncated bool) {
	if m == nil {
		return
	}

	label := "false"
	if truncated {
		label = "true"
	}

	m.filesOpened.WithLabelValues(label).Inc()
}

func (m *Metrics) SegmentParsed() {
	if m == nil {
		return
	}

	m.segmentsParsed.Inc()
}

func (m *Metrics) BytesRead(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.bytesRead.Add(float64(n))
}

// ObserveRead records one read of the given kind ("values", "bytes", "strings").
func (m *Metrics) ObserveRead(kind string, started time.Time) {
	if m == nil {
		return
	}

	m.readDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func (m *Metrics) StringIndexLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.stringIndex.WithLabelValues(result).Inc()
}
