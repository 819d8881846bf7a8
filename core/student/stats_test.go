package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dec(f float64) *Decimal {
	d := Decimal(f)
	return &d
}

func withPromedio(id int, p *Decimal) Student {
	return Student{ID: id, Promedio: p}
}

func studentIDs(students []Student) []int {
	res := make([]int, 0, len(students))
	for _, s := range students {
		res = append(res, s.ID)
	}
	return res
}

func TestBuildStats(t *testing.T) {
	tests := []struct {
		name           string
		students       []Student
		wantTotal      int
		wantGeneral    float64
		wantMejores    []int
		wantEnRiesgo   []int
		wantExcelentes int
		wantBuenos     int
	}{
		{
			name:         "empty",
			wantMejores:  []int{},
			wantEnRiesgo: []int{},
		},
		{
			name:           "three students",
			students:       []Student{withPromedio(1, dec(4.8)), withPromedio(2, dec(2.5)), withPromedio(3, dec(4.0))},
			wantTotal:      3,
			wantGeneral:    (4.8 + 2.5 + 4.0) / 3,
			wantMejores:    []int{1, 3, 2},
			wantEnRiesgo:   []int{2},
			wantExcelentes: 1,
			wantBuenos:     1,
		},
		{
			name: "ties keep input order",
			students: []Student{
				withPromedio(1, dec(3.5)), withPromedio(2, dec(4.2)), withPromedio(3, dec(3.5)),
				withPromedio(4, dec(4.2)), withPromedio(5, dec(3.5)),
			},
			wantTotal:    5,
			wantGeneral:  (3.5*3 + 4.2*2) / 5,
			wantMejores:  []int{2, 4, 1},
			wantEnRiesgo: []int{},
			wantBuenos:   2,
		},
		{
			name:         "missing average counts as zero",
			students:     []Student{withPromedio(1, nil), withPromedio(2, dec(3))},
			wantTotal:    2,
			wantGeneral:  1.5,
			wantMejores:  []int{2, 1},
			wantEnRiesgo: []int{1},
		},
		{
			name:         "at risk is strictly below 3",
			students:     []Student{withPromedio(1, dec(2.99)), withPromedio(2, dec(3)), withPromedio(3, dec(0))},
			wantTotal:    3,
			wantGeneral:  (2.99 + 3) / 3,
			wantMejores:  []int{2, 1, 3},
			wantEnRiesgo: []int{1, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := BuildStats(tt.students)
			assert.Equal(t, tt.wantTotal, stats.Total)
			assert.InDelta(t, tt.wantGeneral, stats.PromedioGeneral, 1e-9)
			assert.Equal(t, tt.wantMejores, studentIDs(stats.Mejores))
			assert.Equal(t, tt.wantEnRiesgo, studentIDs(stats.EnRiesgo))
			assert.Equal(t, tt.wantExcelentes, stats.Excelentes)
			assert.Equal(t, tt.wantBuenos, stats.Buenos)
			assert.NotNil(t, stats.Mejores)
			assert.NotNil(t, stats.EnRiesgo)
		})
	}
}

func TestBuildStats_DoesNotReorderInput(t *testing.T) {
	students := []Student{withPromedio(1, dec(1)), withPromedio(2, dec(5))}
	BuildStats(students)
	assert.Equal(t, []int{1, 2}, studentIDs(students))
}

func TestBadgeVariant(t *testing.T) {
	tests := []struct {
		promedio float64
		want     string
	}{
		{5, "success"},
		{4.5, "success"},
		{4.49, "primary"},
		{4, "primary"},
		{3.5, "info"},
		{3, "warning"},
		{2.99, "danger"},
		{0, "danger"},
	}
	for _, tt := range tests {
		if got := BadgeVariant(tt.promedio); got != tt.want {
			t.Errorf("BadgeVariant(%v) = %q, want %q", tt.promedio, got, tt.want)
		}
	}
}

func TestFormatPromedio(t *testing.T) {
	tests := []struct {
		name string
		p    *Decimal
		want string
	}{
		{"missing", nil, "N/A"},
		{"zero", dec(0), "N/A"},
		{"rounded", dec(3.766666), "3.77"},
		{"whole", dec(4), "4.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPromedio(tt.p); got != tt.want {
				t.Errorf("FormatPromedio() = %q, want %q", got, tt.want)
			}
		})
	}
}
