package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alumnos/core/student"
)

func setup(t *testing.T) student.Gateway {
	db, err := Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return NewStudentGateway(db)
}

func TestStudentGateway(t *testing.T) {
	ctx := context.Background()
	gw := setup(t)

	ana, err := gw.CreateStudent(ctx, student.Payload{Nombre: "Ana", NumeroDocumento: "100", Nota1: 4.8, Nota2: 3.9, Nota3: 4.1})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	assert.Equal(t, 1, ana.ID)
	assert.Equal(t, "4.27", student.FormatPromedio(ana.Promedio))

	luis, err := gw.CreateStudent(ctx, student.Payload{Nombre: "Luis", NumeroDocumento: "200"})
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	assert.Equal(t, 2, luis.ID)

	_, err = gw.CreateStudent(ctx, student.Payload{Nombre: "Eva", NumeroDocumento: "100"})
	if assert.Error(t, err) {
		msgs, ok := err.(*student.ValidationError).Field(student.FieldNumeroDocumento)
		assert.True(t, ok)
		assert.Equal(t, []string{errDocumentExists}, msgs)
	}

	// an update may keep its own document
	updated, err := gw.UpdateStudent(ctx, ana.ID, student.Payload{Nombre: "Ana M", NumeroDocumento: "100", Nota1: 5, Nota2: 5, Nota3: 5})
	if err != nil {
		t.Fatalf("UpdateStudent() error = %v", err)
	}
	assert.Equal(t, "Ana M", updated.Nombre)
	assert.Equal(t, "5.00", student.FormatPromedio(updated.Promedio))

	if _, err := gw.UpdateStudent(ctx, luis.ID, student.Payload{NumeroDocumento: "100"}); err == nil {
		t.Error("UpdateStudent() error = nil, want duplicate document error")
	}

	got, err := gw.GetStudent(ctx, ana.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, updated, got)
	}

	if err := gw.DeleteStudent(ctx, luis.ID); err != nil {
		t.Fatalf("DeleteStudent() error = %v", err)
	}
	students, _ := gw.ListStudents(ctx)
	assert.Equal(t, []student.Student{updated}, students)
}

func TestStudentGateway_NotFound(t *testing.T) {
	ctx := context.Background()
	gw := setup(t)

	_, err := gw.GetStudent(ctx, 1)
	assert.True(t, student.IsNotFound(err))
	_, err = gw.UpdateStudent(ctx, 1, student.Payload{})
	assert.True(t, student.IsNotFound(err))
	assert.True(t, student.IsNotFound(gw.DeleteStudent(ctx, 1)))
}

func TestStudentGateway_ListEmpty(t *testing.T) {
	students, err := setup(t).ListStudents(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
