package student

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode tells a form whether it creates or edits a Student.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

var gradeLabels = []struct{ field, label string }{
	{FieldNota1, "Nota 1"},
	{FieldNota2, "Nota 2"},
	{FieldNota3, "Nota 3"},
}

// Messages shown to the user.
const (
	MsgCreated        = "Alumno creado exitosamente!"
	MsgUpdated        = "Alumno actualizado exitosamente!"
	MsgCreateFailed   = "Error al crear el alumno."
	MsgUpdateFailed   = "Error al actualizar el alumno."
	MsgDeleteFailed   = "Error al eliminar el alumno."
	MsgListFailed     = "Error al obtener alumnos."
	MsgLoadFailed     = "Error al cargar el alumno."
	MsgStatsFailed    = "Error al cargar las estadísticas"
	MsgInvalidDraft   = "Revise los datos del formulario."
	errorPrefix       = "❌ "
	deletedMsgPattern = "✅ Alumno \"%s\" eliminado exitosamente!"
)

// DeletedMessage is the notice shown once s has been removed.
func DeletedMessage(s Student) string {
	return fmt.Sprintf(deletedMsgPattern, s.Nombre)
}

// FormErrorMessage turns a failed create/update into a single human readable line.
// Field errors are reported by priority: document number, then name, then grades.
func FormErrorMessage(err error, mode Mode, draft Draft) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		if _, ok := vErr.Field(FieldNumeroDocumento); ok {
			if mode == ModeEdit {
				return fmt.Sprintf("%sEl número de documento \"%s\" ya está registrado por otro alumno. Por favor, use un número diferente.", errorPrefix, draft.NumeroDocumento)
			}
			return fmt.Sprintf("%sEl número de documento \"%s\" ya está registrado. Por favor, use un número diferente.", errorPrefix, draft.NumeroDocumento)
		}
		if msgs, ok := vErr.Field(FieldNombre); ok {
			return errorPrefix + "Error en el nombre: " + strings.Join(msgs, ", ")
		}

		var gradeErrs []string
		for _, g := range gradeLabels {
			if msgs, ok := vErr.Field(g.field); ok {
				gradeErrs = append(gradeErrs, g.label+": "+strings.Join(msgs, ", "))
			}
		}
		if len(gradeErrs) > 0 {
			return errorPrefix + "Error en las notas: " + strings.Join(gradeErrs, ", ")
		}
		return errorPrefix + vErr.Error()
	}

	fallback := MsgCreateFailed
	if mode == ModeEdit {
		fallback = MsgUpdateFailed
	}
	return plainMessage(err, fallback)
}

// DraftErrorMessage describes a draft rejected before being sent, listing every invalid field.
func DraftErrorMessage(err error) string {
	var vErr *ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
		return plainMessage(err, MsgInvalidDraft)
	}
	parts := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		parts = append(parts, f.Field+": "+strings.Join(f.Messages, ", "))
	}
	return errorPrefix + "Revise los campos: " + strings.Join(parts, "; ")
}

// DeleteErrorMessage turns a failed delete into a human readable line.
func DeleteErrorMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		return errorPrefix + vErr.Error()
	}
	return plainMessage(err, MsgDeleteFailed)
}

// LoadErrorMessage is the text of a failed fetch: the error itself, or fallback when it says nothing.
func LoadErrorMessage(err error, fallback string) string {
	if err == nil || errors.Cause(err).Error() == "" {
		return fallback
	}
	return errors.Cause(err).Error()
}

func plainMessage(err error, fallback string) string {
	if err == nil || errors.Cause(err).Error() == "" {
		return fallback
	}
	return errorPrefix + errors.Cause(err).Error()
}
