package student

import (
	"sort"
	"strconv"
)

const (
	AtRiskThreshold = 3.0
	topCount        = 3
)

// Stats are the dashboard aggregates of a collection.
type Stats struct {
	Total           int
	PromedioGeneral float64
	Mejores         []Student // top 3 by average
	EnRiesgo        []Student // average < AtRiskThreshold
	Excelentes      int       // Mejores with average >= 4.5
	Buenos          int       // Mejores with 4.0 <= average < 4.5
}

// BuildStats derives the dashboard aggregates of students.
// A missing average counts as 0 in every computation.
func BuildStats(students []Student) Stats {
	stats := Stats{
		Total:    len(students),
		Mejores:  []Student{},
		EnRiesgo: []Student{},
	}
	if stats.Total == 0 {
		return stats
	}

	var sum float64
	for _, s := range students {
		sum += s.PromedioValue()
		if s.PromedioValue() < AtRiskThreshold {
			stats.EnRiesgo = append(stats.EnRiesgo, s)
		}
	}
	stats.PromedioGeneral = sum / float64(stats.Total)

	sorted := make([]Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PromedioValue() > sorted[j].PromedioValue()
	})
	n := topCount
	if len(sorted) < n {
		n = len(sorted)
	}
	stats.Mejores = sorted[:n]

	for _, s := range stats.Mejores {
		if s.Promedio == nil {
			continue
		}
		switch p := s.Promedio.Float(); {
		case p >= 4.5:
			stats.Excelentes++
		case p >= 4.0:
			stats.Buenos++
		}
	}
	return stats
}

// BadgeVariant picks the display colour of an average.
func BadgeVariant(promedio float64) string {
	switch {
	case promedio >= 4.5:
		return "success"
	case promedio >= 4.0:
		return "primary"
	case promedio >= 3.5:
		return "info"
	case promedio >= AtRiskThreshold:
		return "warning"
	}
	return "danger"
}

// FormatPromedio renders an average for display.
// Missing and zero averages both show as "N/A", unlike BuildStats which sums them as 0.
func FormatPromedio(p *Decimal) string {
	if p == nil || *p == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(p.Float(), 'f', 2, 64)
}
