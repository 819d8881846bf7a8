package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core"
)

// Validate checks that every field is filled in and that grades are numeric.
// It is a client-side precondition; the API still has the final word.
// Failures are returned as a *ValidationError so they render like server ones.
func (d *Draft) Validate(validate *validator.Validate, translator ut.Translator) error {
	d.Nombre = core.CleanString(d.Nombre)
	d.NumeroDocumento = core.CleanString(d.NumeroDocumento)
	d.Nota1 = core.CleanString(d.Nota1)
	d.Nota2 = core.CleanString(d.Nota2)
	d.Nota3 = core.CleanString(d.Nota3)

	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return errors.Wrap(err, "validating draft")
	}

	vErr := NewValidationError()
	for _, fe := range core.TranslateFieldErrors(vErrs, translator) {
		vErr.Fields = append(vErr.Fields, FieldError{Field: fe.Field, Messages: []string{fe.Error}})
	}
	return vErr
}
