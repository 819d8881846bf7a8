package echoapi

import (
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/alumnos/core/student"
)

var orderingParam = "ordering"

type ordering struct {
	Field     string
	Ascending bool
}

// Ordering is the `?ordering=-promedio,nombre` query parameter of list calls.
// Unknown fields are ignored.
type Ordering struct {
	Orderings []ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if _, ok := studentOrderings[field]; ok {
			ord.Orderings = append(ord.Orderings, ordering{Field: field, Ascending: !descending})
		}
	}
}

var studentOrderings = map[string]func(a, b student.Student) int{
	"id":               func(a, b student.Student) int { return compareInts(a.ID, b.ID) },
	"nombre":           func(a, b student.Student) int { return strings.Compare(a.Nombre, b.Nombre) },
	"numero_documento": func(a, b student.Student) int { return strings.Compare(a.NumeroDocumento, b.NumeroDocumento) },
	"nota1":            func(a, b student.Student) int { return compareFloats(a.Nota1.Float(), b.Nota1.Float()) },
	"nota2":            func(a, b student.Student) int { return compareFloats(a.Nota2.Float(), b.Nota2.Float()) },
	"nota3":            func(a, b student.Student) int { return compareFloats(a.Nota3.Float(), b.Nota3.Float()) },
	"promedio":         func(a, b student.Student) int { return compareFloats(a.PromedioValue(), b.PromedioValue()) },
}

// Sort orders students in place. Ties keep the gateway's order.
func (ord Ordering) Sort(students []student.Student) {
	if len(ord.Orderings) == 0 {
		return
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, o := range ord.Orderings {
			c := studentOrderings[o.Field](students[i], students[j])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
