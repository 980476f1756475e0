package serve

import (
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/tagspc/tagspc/internal/spc"
)

// Metrics accumulates evaluation counters and serves them as Prometheus
// text exposition on /metrics. Safe for concurrent use.
type Metrics struct {
	mu           sync.Mutex
	evaluations  float64
	skipped      float64 // evaluations below the rule-evaluation minimum
	queryErrors  float64
	violations   map[string]float64 // key: rule label ("1".."4")
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{violations: make(map[string]float64)}
}

// ObserveReport records the outcome of one evaluation.
func (m *Metrics) ObserveReport(rep *spc.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluations++
	if rep.Statistics != nil && rep.Statistics.Count < spc.MinSamples {
		m.skipped++
	}
	for rule, count := range rep.ViolationSummary {
		// Summary keys are "rule_N"; the label keeps just N.
		m.violations[rule[len("rule_"):]] += float64(count)
	}
}

// ObserveQueryError records a failed historian query.
func (m *Metrics) ObserveQueryError() {
	m.mu.Lock()
	m.queryErrors++
	m.mu.Unlock()
}

// ServeHTTP writes the current counters in Prometheus text format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mu.Lock()
	families := []*dto.MetricFamily{
		counterFamily("tagspc_evaluations_total",
			"Total SPC evaluations performed.", m.evaluations, nil),
		counterFamily("tagspc_rule_evaluation_skipped_total",
			"Evaluations with too few samples for rule evaluation.", m.skipped, nil),
		counterFamily("tagspc_historian_query_errors_total",
			"Historian queries that failed after retries.", m.queryErrors, nil),
		violationFamily(m.violations),
	}
	m.mu.Unlock()

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

func counterFamily(name, help string, value float64, labels []*dto.LabelPair) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{
			Label:   labels,
			Counter: &dto.Counter{Value: f64Ptr(value)},
		}},
	}
}

// violationFamily emits one tagspc_violations_total series per rule,
// labels sorted for stable output.
func violationFamily(violations map[string]float64) *dto.MetricFamily {
	rules := make([]string, 0, len(violations))
	for r := range violations {
		rules = append(rules, r)
	}
	sort.Strings(rules)

	mf := &dto.MetricFamily{
		Name: strPtr("tagspc_violations_total"),
		Help: strPtr("Total Western Electric Rule violations detected, by rule."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, r := range rules {
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label: []*dto.LabelPair{{
				Name:  strPtr("rule"),
				Value: strPtr(r),
			}},
			Counter: &dto.Counter{Value: f64Ptr(violations[r])},
		})
	}
	if len(mf.Metric) == 0 {
		// Always expose the family so dashboards see a zero, not a gap.
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label: []*dto.LabelPair{{
				Name:  strPtr("rule"),
				Value: strPtr("1"),
			}},
			Counter: &dto.Counter{Value: f64Ptr(0)},
		})
	}
	return mf
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }
