package student

import (
	"testing"

	"github.com/pkg/errors"
)

func TestFormErrorMessage(t *testing.T) {
	draft := Draft{Nombre: "Ana", NumeroDocumento: "123"}
	docErr := FieldError{Field: FieldNumeroDocumento, Messages: []string{"alumno with this numero documento already exists."}}
	nameErr := FieldError{Field: FieldNombre, Messages: []string{"This field may not be blank."}}
	nota1Err := FieldError{Field: FieldNota1, Messages: []string{"Ensure this value is less than or equal to 5."}}
	nota3Err := FieldError{Field: FieldNota3, Messages: []string{"A valid number is required.", "Required."}}

	tests := []struct {
		name string
		err  error
		mode Mode
		want string
	}{
		{
			name: "document conflict on create",
			err:  NewValidationError(nameErr, docErr),
			mode: ModeCreate,
			want: `❌ El número de documento "123" ya está registrado. Por favor, use un número diferente.`,
		},
		{
			name: "document conflict on edit",
			err:  NewValidationError(docErr),
			mode: ModeEdit,
			want: `❌ El número de documento "123" ya está registrado por otro alumno. Por favor, use un número diferente.`,
		},
		{
			name: "name before grades",
			err:  NewValidationError(nota1Err, nameErr),
			mode: ModeCreate,
			want: "❌ Error en el nombre: This field may not be blank.",
		},
		{
			name: "grades",
			err:  NewValidationError(nota3Err, nota1Err),
			mode: ModeEdit,
			want: "❌ Error en las notas: Nota 1: Ensure this value is less than or equal to 5., Nota 3: A valid number is required., Required.",
		},
		{
			name: "other fields are flattened",
			err:  NewValidationError(FieldError{Field: "non_field_errors", Messages: []string{"a", "b"}}),
			mode: ModeCreate,
			want: "❌ a, b",
		},
		{
			name: "wrapped validation error",
			err:  errors.Wrap(NewValidationError(nameErr), "creating student"),
			mode: ModeCreate,
			want: "❌ Error en el nombre: This field may not be blank.",
		},
		{
			name: "transport error",
			err:  &TransportError{Op: "creating student", Err: errors.New("connection refused")},
			mode: ModeCreate,
			want: "❌ connection refused",
		},
		{
			name: "server error",
			err:  &ServerError{StatusCode: 502},
			mode: ModeEdit,
			want: "❌ request failed with status code 502",
		},
		{"no text on create", errors.New(""), ModeCreate, MsgCreateFailed},
		{"no text on edit", errors.New(""), ModeEdit, MsgUpdateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormErrorMessage(tt.err, tt.mode, draft); got != tt.want {
				t.Errorf("FormErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeleteErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &NotFoundError{ID: 3, Detail: "Not found."}, "❌ Not found."},
		{"not found without detail", &NotFoundError{ID: 3}, "❌ alumno 3 not found"},
		{"validation", NewValidationError(FieldError{Field: "detail", Messages: []string{"protected"}}), "❌ protected"},
		{"no text", errors.New(""), MsgDeleteFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeleteErrorMessage(tt.err); got != tt.want {
				t.Errorf("DeleteErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDraftErrorMessage(t *testing.T) {
	err := NewValidationError(
		FieldError{Field: FieldNombre, Messages: []string{"this field is required"}},
		FieldError{Field: FieldNota2, Messages: []string{"a valid number is required"}},
	)
	want := "❌ Revise los campos: nombre: this field is required; nota2: a valid number is required"
	if got := DraftErrorMessage(err); got != want {
		t.Errorf("DraftErrorMessage() = %q, want %q", got, want)
	}
	if got := DraftErrorMessage(errors.New("")); got != MsgInvalidDraft {
		t.Errorf("DraftErrorMessage() = %q, want %q", got, MsgInvalidDraft)
	}
}

func TestDeletedMessage(t *testing.T) {
	tests := []struct {
		nombre string
		want   string
	}{
		{"Ana María", `✅ Alumno "Ana María" eliminado exitosamente!`},
		{`Ana "la" Ruiz`, `✅ Alumno "Ana "la" Ruiz" eliminado exitosamente!`},
	}
	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			if got := DeletedMessage(Student{Nombre: tt.nombre}); got != tt.want {
				t.Errorf("DeletedMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormErrorMessage_DocumentKeptVerbatim(t *testing.T) {
	err := NewValidationError(FieldError{Field: FieldNumeroDocumento, Messages: []string{"taken"}})
	want := `❌ El número de documento "A"1\t" ya está registrado. Por favor, use un número diferente.`
	if got := FormErrorMessage(err, ModeCreate, Draft{NumeroDocumento: `A"1\t`}); got != want {
		t.Errorf("FormErrorMessage() = %q, want %q", got, want)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	if got := LoadErrorMessage(errors.Wrap(&NotFoundError{Detail: "Not found."}, "getting student"), MsgLoadFailed); got != "Not found." {
		t.Errorf("LoadErrorMessage() = %q, want %q", got, "Not found.")
	}
	if got := LoadErrorMessage(nil, MsgLoadFailed); got != MsgLoadFailed {
		t.Errorf("LoadErrorMessage() = %q, want %q", got, MsgLoadFailed)
	}
}
