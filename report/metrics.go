package report

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/taxonomy"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "rsf"

// Metrics holds taxonomy gauges on a private registry, so repeated runs in
// one process never collide with the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	skills      *prometheus.GaugeVec
	roles       *prometheus.GaugeVec
	proficiency *prometheus.GaugeVec
}

// NewMetrics creates the gauges under namespace (DefaultNamespace when empty).
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.skills = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skills",
			Help:      "Number of taxonomy records per domain and skill type",
		},
		[]string{"domain", "skill_type"},
	)

	m.roles = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skill_roles",
			Help:      "Number of records mapped to each role",
		},
		[]string{"role"},
	)

	m.proficiency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skill_proficiency",
			Help:      "Number of records at each proficiency level",
		},
		[]string{"level"},
	)

	m.registry.MustRegister(m.skills, m.roles, m.proficiency)
	return m
}

// Observe replaces all gauge values with the tallies of skills.
func (m *Metrics) Observe(skills []taxonomy.Skill) {
	m.skills.Reset()
	m.roles.Reset()
	m.proficiency.Reset()

	for _, s := range skills {
		m.skills.WithLabelValues(s.Domain, string(s.SkillType)).Inc()
		m.proficiency.WithLabelValues(strconv.Itoa(s.ProficiencyLevel)).Inc()
		for _, r := range s.RoleMapping {
			m.roles.WithLabelValues(string(r)).Inc()
		}
	}
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the gauges in the Prometheus text format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := output.EnsureDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// WriteTextfile tallies skills and writes them to path in one step.
func WriteTextfile(path, namespace string, skills []taxonomy.Skill) error {
	m := NewMetrics(namespace)
	m.Observe(skills)
	return m.WriteTextfile(path)
}
