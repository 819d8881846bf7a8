package core

// FieldError is a translated validation message for one struct field, named by its JSON tag.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a request body fails validation.
// HTTP error handlers render Fields as {field: [message]}.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return err.Fields[0].Field + ": " + err.Fields[0].Error
	}
	return ""
}
