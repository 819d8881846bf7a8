package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alumnos/core/student"
	testutil "github.com/trezcool/alumnos/tests"
)

func fill(t *testing.T, c *FormController, d student.Draft) {
	t.Helper()
	for _, fld := range student.DraftFields {
		val, _ := d.Get(fld)
		if err := c.Set(fld, val); err != nil {
			t.Fatalf("Set(%q) error = %v", fld, err)
		}
	}
}

func TestCreateForm_Submit(t *testing.T) {
	clk := useFakeClock(t)
	gw := testutil.NewGateway(t)

	c, err := NewCreateForm(gw, Options{})
	if err != nil {
		t.Fatalf("NewCreateForm() error = %v", err)
	}
	defer c.Close()
	assert.True(t, isClosed(c.Loaded()))
	fill(t, c, student.Draft{Nombre: " Ana ", NumeroDocumento: "100", Nota1: "4.5", Nota2: "4", Nota3: "3.5"})

	done, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	testutil.Wait(t, done)

	assert.True(t, c.Succeeded())
	notice, ok := c.Notice()
	if assert.True(t, ok) {
		assert.Equal(t, Notice{Variant: Success, Message: student.MsgCreated}, notice)
	}

	students, _ := gw.ListStudents(context.Background())
	if assert.Len(t, students, 1) {
		assert.Equal(t, "Ana", students[0].Nombre)
		assert.Equal(t, "4.00", student.FormatPromedio(students[0].Promedio))
	}

	assert.False(t, isClosed(c.Navigate()))
	if tms := clk.pending(); assert.Len(t, tms, 1) {
		assert.Equal(t, DefaultRedirectDelay, tms[0].d)
	}
	clk.fire()
	assert.True(t, isClosed(c.Navigate()))
}

func TestCreateForm_InvalidDraft(t *testing.T) {
	useFakeClock(t)
	tests := []struct {
		name       string
		draft      student.Draft
		wantFields []string
	}{
		{"empty", student.Draft{}, []string{"nombre", "numero_documento", "nota1", "nota2", "nota3"}},
		{"blank name", student.Draft{Nombre: "   ", NumeroDocumento: "1", Nota1: "1", Nota2: "1", Nota3: "1"}, []string{"nombre"}},
		{"non numeric grade", student.Draft{Nombre: "Ana", NumeroDocumento: "1", Nota1: "a", Nota2: "1", Nota3: "1"}, []string{"nota1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewGateway(t)
			c, err := NewCreateForm(gw, Options{})
			if err != nil {
				t.Fatalf("NewCreateForm() error = %v", err)
			}
			defer c.Close()
			fill(t, c, tt.draft)

			_, err = c.Submit()
			vErr, ok := err.(*student.ValidationError)
			if !ok {
				t.Fatalf("Submit() error = %v, want *student.ValidationError", err)
			}
			var flds []string
			for _, f := range vErr.Fields {
				flds = append(flds, f.Field)
			}
			assert.Equal(t, tt.wantFields, flds)
			assert.Equal(t, 0, gw.Calls("create"))
			assert.False(t, c.Submitting())

			notice, ok := c.Notice()
			if assert.True(t, ok) {
				assert.Equal(t, Danger, notice.Variant)
				assert.Contains(t, notice.Message, "Revise los campos")
			}
		})
	}
}

func TestCreateForm_DuplicateDocument(t *testing.T) {
	clk := useFakeClock(t)
	gw := testutil.NewGateway(t)
	testutil.CreateStudent(t, gw, "Ana", "100", 4, 4, 4)

	c, err := NewCreateForm(gw, Options{})
	if err != nil {
		t.Fatalf("NewCreateForm() error = %v", err)
	}
	defer c.Close()
	fill(t, c, student.Draft{Nombre: "Luis", NumeroDocumento: "100", Nota1: "3", Nota2: "3", Nota3: "3"})

	done, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	testutil.Wait(t, done)

	assert.False(t, c.Succeeded())
	notice, _ := c.Notice()
	assert.Equal(t, Notice{
		Variant: Danger,
		Message: `❌ El número de documento "100" ya está registrado. Por favor, use un número diferente.`,
	}, notice)
	assert.Empty(t, clk.pending())
	assert.False(t, isClosed(c.Navigate()))

	// draft is kept for another try
	d, ok := c.Draft()
	if assert.True(t, ok) {
		assert.Equal(t, "Luis", d.Nombre)
	}
}

func TestCreateForm_SubmitInFlight(t *testing.T) {
	useFakeClock(t)
	gw := testutil.NewGateway(t)
	release := make(chan struct{})
	gw.CreateFunc = func(ctx context.Context, p student.Payload) (student.Student, error) {
		<-release
		return gw.Gateway.CreateStudent(ctx, p)
	}

	c, err := NewCreateForm(gw, Options{})
	if err != nil {
		t.Fatalf("NewCreateForm() error = %v", err)
	}
	defer c.Close()
	fill(t, c, student.Draft{Nombre: "Ana", NumeroDocumento: "100", Nota1: "4", Nota2: "4", Nota3: "4"})

	done, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	assert.True(t, c.Submitting())
	if _, err := c.Submit(); err != ErrSubmitInFlight {
		t.Errorf("Submit() error = %v, want %v", err, ErrSubmitInFlight)
	}
	close(release)
	testutil.Wait(t, done)

	assert.Equal(t, 1, gw.Calls("create"))
	assert.False(t, c.Submitting())
}

func TestEditForm(t *testing.T) {
	useFakeClock(t)
	gw := testutil.NewGateway(t)
	s := testutil.CreateStudent(t, gw, "Ana", "100", 4.5, 4, 3.5)
	testutil.CreateStudent(t, gw, "Luis", "200", 3, 3, 3)

	c, err := NewEditForm(gw, s.ID, Options{})
	if err != nil {
		t.Fatalf("NewEditForm() error = %v", err)
	}
	defer c.Close()
	testutil.Wait(t, c.Loaded())

	d, ok := c.Draft()
	if assert.True(t, ok) {
		assert.Equal(t, student.Draft{Nombre: "Ana", NumeroDocumento: "100", Nota1: "4.5", Nota2: "4", Nota3: "3.5"}, d)
	}

	// taking another student's document
	assert.NoError(t, c.Set(student.FieldNumeroDocumento, "200"))
	done, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	testutil.Wait(t, done)
	notice, _ := c.Notice()
	assert.Equal(t, `❌ El número de documento "200" ya está registrado por otro alumno. Por favor, use un número diferente.`, notice.Message)

	assert.NoError(t, c.Set(student.FieldNumeroDocumento, "100"))
	assert.NoError(t, c.Set(student.FieldNota3, "5"))
	done, err = c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	testutil.Wait(t, done)

	notice, _ = c.Notice()
	assert.Equal(t, Notice{Variant: Success, Message: student.MsgUpdated}, notice)
	updated, err := gw.GetStudent(context.Background(), s.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, student.Decimal(5), updated.Nota3)
		assert.Equal(t, "4.50", student.FormatPromedio(updated.Promedio))
	}
	assert.Equal(t, 2, gw.Calls("update"))
}

func TestEditForm_NotFound(t *testing.T) {
	gw := testutil.NewGateway(t)

	c, err := NewEditForm(gw, 99, Options{})
	if err != nil {
		t.Fatalf("NewEditForm() error = %v", err)
	}
	defer c.Close()
	testutil.Wait(t, c.Loaded())

	failed, ok := c.State().(Failed)
	if assert.True(t, ok, "State() = %T, want Failed", c.State()) {
		assert.Equal(t, "Not found.", failed.Message)
		assert.True(t, student.IsNotFound(failed.Err))
	}
	if err := c.Set(student.FieldNombre, "x"); err != ErrNotReady {
		t.Errorf("Set() error = %v, want %v", err, ErrNotReady)
	}
	if _, err := c.Submit(); err != ErrNotReady {
		t.Errorf("Submit() error = %v, want %v", err, ErrNotReady)
	}
	assert.Equal(t, 0, gw.Calls("update"))
}

func TestForm_CloseCancelsNavigation(t *testing.T) {
	clk := useFakeClock(t)
	gw := testutil.NewGateway(t)

	c, err := NewCreateForm(gw, Options{})
	if err != nil {
		t.Fatalf("NewCreateForm() error = %v", err)
	}
	fill(t, c, student.Draft{Nombre: "Ana", NumeroDocumento: "100", Nota1: "4", Nota2: "4", Nota3: "4"})
	done, err := c.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	testutil.Wait(t, done)

	c.Close()
	assert.Empty(t, clk.pending())
	clk.fire()
	assert.False(t, isClosed(c.Navigate()))
}

func TestForm_SetUnknownField(t *testing.T) {
	c, err := NewCreateForm(testutil.NewGateway(t), Options{})
	if err != nil {
		t.Fatalf("NewCreateForm() error = %v", err)
	}
	defer c.Close()
	if err := c.Set("promedio", "5"); err == nil {
		t.Error("Set() error = nil, want error")
	}
}
