package student

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Decimal is a grade or an average as sent by the API.
// It decodes from a JSON number as well as from a numeric string ("4.50").
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errors.Wrap(err, "decoding decimal")
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) Float() float64 { return float64(d) }

// Student is a record as stored by the external API.
type Student struct {
	ID              int      `json:"id"`
	Nombre          string   `json:"nombre"`
	NumeroDocumento string   `json:"numero_documento"`
	Nota1           Decimal  `json:"nota1"`
	Nota2           Decimal  `json:"nota2"`
	Nota3           Decimal  `json:"nota3"`
	Promedio        *Decimal `json:"promedio"` // read-only; computed by the API
}

// PromedioValue returns the average, counting a missing one as 0.
func (s Student) PromedioValue() float64 {
	if s.Promedio == nil {
		return 0
	}
	return s.Promedio.Float()
}

// Payload is the request body of create & update calls.
type Payload struct {
	Nombre          string  `json:"nombre"`
	NumeroDocumento string  `json:"numero_documento"`
	Nota1           float64 `json:"nota1"`
	Nota2           float64 `json:"nota2"`
	Nota3           float64 `json:"nota3"`
}

// Draft field names, as used on the wire.
const (
	FieldNombre          = "nombre"
	FieldNumeroDocumento = "numero_documento"
	FieldNota1           = "nota1"
	FieldNota2           = "nota2"
	FieldNota3           = "nota3"
)

// DraftFields lists the editable fields in form order.
var DraftFields = []string{FieldNombre, FieldNumeroDocumento, FieldNota1, FieldNota2, FieldNota3}

var ErrUnknownField = errors.New("unknown field")

// Draft is the editable copy of a Student held by a form. Values are kept as typed.
type Draft struct {
	Nombre          string `json:"nombre" validate:"required"`
	NumeroDocumento string `json:"numero_documento" validate:"required"`
	Nota1           string `json:"nota1" validate:"required,numeric"`
	Nota2           string `json:"nota2" validate:"required,numeric"`
	Nota3           string `json:"nota3" validate:"required,numeric"`
}

// DraftFromStudent copies the editable fields of s into a new Draft.
func DraftFromStudent(s Student) Draft {
	return Draft{
		Nombre:          s.Nombre,
		NumeroDocumento: s.NumeroDocumento,
		Nota1:           formatGrade(s.Nota1),
		Nota2:           formatGrade(s.Nota2),
		Nota3:           formatGrade(s.Nota3),
	}
}

func formatGrade(d Decimal) string {
	return strconv.FormatFloat(d.Float(), 'f', -1, 64)
}

// Get returns the value of the named field.
func (d Draft) Get(field string) (string, error) {
	switch field {
	case FieldNombre:
		return d.Nombre, nil
	case FieldNumeroDocumento:
		return d.NumeroDocumento, nil
	case FieldNota1:
		return d.Nota1, nil
	case FieldNota2:
		return d.Nota2, nil
	case FieldNota3:
		return d.Nota3, nil
	}
	return "", errors.Wrap(ErrUnknownField, field)
}

// Set updates the named field.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldNombre:
		d.Nombre = value
	case FieldNumeroDocumento:
		d.NumeroDocumento = value
	case FieldNota1:
		d.Nota1 = value
	case FieldNota2:
		d.Nota2 = value
	case FieldNota3:
		d.Nota3 = value
	default:
		return errors.Wrap(ErrUnknownField, field)
	}
	return nil
}

// Payload converts a validated Draft into a request body.
func (d Draft) Payload() (Payload, error) {
	p := Payload{
		Nombre:          d.Nombre,
		NumeroDocumento: d.NumeroDocumento,
	}
	grades := []struct {
		dst *float64
		src string
		fld string
	}{
		{&p.Nota1, d.Nota1, FieldNota1},
		{&p.Nota2, d.Nota2, FieldNota2},
		{&p.Nota3, d.Nota3, FieldNota3},
	}
	for _, g := range grades {
		f, err := strconv.ParseFloat(g.src, 64)
		if err != nil {
			return Payload{}, errors.Wrapf(err, "parsing %s", g.fld)
		}
		*g.dst = f
	}
	return p, nil
}

// MarshalJSON keeps Decimal values numeric on the way out.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}
