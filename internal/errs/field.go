package errs

// FieldError is a single (field, message) validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects validation failures in the order they were found.
// Adding a field twice replaces the earlier message.
type FieldErrors []FieldError

// Add records message for field.
func (e *FieldErrors) Add(field, message string) {
	for i := range *e {
		if (*e)[i].Field == field {
			(*e)[i].Message = message
			return
		}
	}
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Empty reports whether no failures were recorded.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Map renders the failures into the {field: message} wire shape.
func (e FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}
