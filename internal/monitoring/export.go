package monitoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MetricsExporter exports metrics in various formats
type MetricsExporter struct {
	registry *MetricsRegistry
}

// NewMetricsExporter creates a new metrics exporter
func NewMetricsExporter(registry *MetricsRegistry) *MetricsExporter {
	return &MetricsExporter{
		registry: registry,
	}
}

// ExportPrometheus exports metrics in the Prometheus text exposition format
func (me *MetricsExporter) ExportPrometheus() string {
	var b strings.Builder

	for _, metric := range me.registry.GetAllMetrics() {
		name := metric.Name()
		fmt.Fprintf(&b, "# TYPE %s %s\n", name, metric.Type())

		switch m := metric.(type) {
		case *CounterMetric:
			fmt.Fprintf(&b, "%s%s %d\n", name, formatLabels(m.Labels(), ""), m.Get())

		case *GaugeMetric:
			fmt.Fprintf(&b, "%s%s %s\n", name, formatLabels(m.Labels(), ""), formatFloat(m.Get()))

		case *HistogramMetric:
			buckets, counts := m.GetBuckets()
			for i, bucket := range buckets {
				fmt.Fprintf(&b, "%s_bucket%s %d\n", name, formatLabels(m.Labels(), formatFloat(bucket)), counts[i])
			}
			fmt.Fprintf(&b, "%s_bucket%s %d\n", name, formatLabels(m.Labels(), "+Inf"), m.GetCount())
			fmt.Fprintf(&b, "%s_sum%s %s\n", name, formatLabels(m.Labels(), ""), formatFloat(m.GetSum()))
			fmt.Fprintf(&b, "%s_count%s %d\n", name, formatLabels(m.Labels(), ""), m.GetCount())
		}
	}

	return b.String()
}

// ExportJSON exports metrics and runtime statistics as a JSON-ready map
func (me *MetricsExporter) ExportJSON() map[string]interface{} {
	appMetrics := make(map[string]interface{})
	for _, metric := range me.registry.GetAllMetrics() {
		appMetrics[metric.Name()] = map[string]interface{}{
			"type":      metric.Type(),
			"value":     metric.Value(),
			"labels":    metric.Labels(),
			"timestamp": metric.Timestamp(),
		}
	}

	return map[string]interface{}{
		"runtime":     me.registry.Runtime(),
		"application": appMetrics,
	}
}

// formatLabels renders {k="v",...} in key order, adding le when set
func formatLabels(labels map[string]string, le string) string {
	if len(labels) == 0 && le == "" {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, strconv.Quote(labels[k])))
	}
	if le != "" {
		pairs = append(pairs, fmt.Sprintf("le=%q", le))
	}

	return "{" + strings.Join(pairs, ",") + "}"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
