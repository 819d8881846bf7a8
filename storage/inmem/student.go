package inmemdb

import (
	"context"
	"math"
	"sort"

	"github.com/trezcool/alumnos/core/student"
)

const errDocumentExists = "alumno with this numero documento already exists."

type studentGateway struct {
	db *studentTable
}

var _ student.Gateway = (*studentGateway)(nil)

// NewStudentGateway returns a student.Gateway that keeps records in db.
// It computes averages and enforces document number uniqueness like the real API does.
func NewStudentGateway(db *DB) student.Gateway {
	return &studentGateway{db: db.student}
}

// query returns all students ordered by ID. Callers hold the lock.
func (gw *studentGateway) query() []student.Student {
	students := make([]student.Student, 0, len(gw.db.table))
	for _, s := range gw.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (gw *studentGateway) checkDocumentUniqueness(doc string, excludedID int) error {
	for _, s := range gw.db.table {
		if s.NumeroDocumento == doc && s.ID != excludedID {
			return student.NewValidationError(student.FieldError{
				Field:    student.FieldNumeroDocumento,
				Messages: []string{errDocumentExists},
			})
		}
	}
	return nil
}

func (gw *studentGateway) ListStudents(_ context.Context) ([]student.Student, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()
	return gw.query(), nil
}

func (gw *studentGateway) GetStudent(_ context.Context, id int) (student.Student, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	if s, ok := gw.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, &student.NotFoundError{ID: id, Detail: "Not found."}
}

func (gw *studentGateway) CreateStudent(_ context.Context, p student.Payload) (student.Student, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	if err := gw.checkDocumentUniqueness(p.NumeroDocumento, 0); err != nil {
		return student.Student{}, err
	}
	gw.db.pkSeq++
	s := fromPayload(gw.db.pkSeq, p)
	gw.db.table[s.ID] = &s
	return s, nil
}

func (gw *studentGateway) UpdateStudent(_ context.Context, id int, p student.Payload) (student.Student, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	if _, ok := gw.db.table[id]; !ok {
		return student.Student{}, &student.NotFoundError{ID: id, Detail: "Not found."}
	}
	if err := gw.checkDocumentUniqueness(p.NumeroDocumento, id); err != nil {
		return student.Student{}, err
	}
	s := fromPayload(id, p)
	gw.db.table[id] = &s
	return s, nil
}

func (gw *studentGateway) DeleteStudent(_ context.Context, id int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	if _, ok := gw.db.table[id]; !ok {
		return &student.NotFoundError{ID: id, Detail: "Not found."}
	}
	delete(gw.db.table, id)
	return nil
}

func fromPayload(id int, p student.Payload) student.Student {
	avg := student.Decimal(math.Round((p.Nota1+p.Nota2+p.Nota3)/3*100) / 100)
	return student.Student{
		ID:              id,
		Nombre:          p.Nombre,
		NumeroDocumento: p.NumeroDocumento,
		Nota1:           student.Decimal(p.Nota1),
		Nota2:           student.Decimal(p.Nota2),
		Nota3:           student.Decimal(p.Nota3),
		Promedio:        &avg,
	}
}
