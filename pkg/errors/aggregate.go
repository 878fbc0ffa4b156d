package errors

import "go.uber.org/multierr"

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string {
	return f.Field + ": " + f.Message
}

// Collector accumulates field failures so a request can be rejected with all of them at once.
type Collector struct {
	err error
}

func (c *Collector) Add(field, message string) {
	c.err = multierr.Append(c.err, FieldError{Field: field, Message: message})
}

// Merge folds another error into the collector. Typed validation errors keep their field details.
func (c *Collector) Merge(err error) {
	if err == nil {
		return
	}
	if typed := As(err); typed != nil && typed.code == CodeValidation {
		if fields, ok := typed.details.([]FieldError); ok {
			for _, f := range fields {
				c.err = multierr.Append(c.err, f)
			}
			return
		}
		c.err = multierr.Append(c.err, FieldError{Field: "", Message: typed.message})
		return
	}
	c.err = multierr.Append(c.err, err)
}

func (c *Collector) Empty() bool {
	return c.err == nil
}

// Err returns nil when nothing was collected, otherwise a validation error listing every field.
func (c *Collector) Err(message string) error {
	if c.err == nil {
		return nil
	}
	errs := multierr.Errors(c.err)
	fields := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		if fe, ok := e.(FieldError); ok {
			fields = append(fields, fe)
			continue
		}
		fields = append(fields, FieldError{Message: e.Error()})
	}
	if message == "" {
		message = fields[0].Error()
	}
	return Wrap(CodeValidation, c.err, message).WithDetails(fields)
}
