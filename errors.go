package mentor

import "errors"

// ErrMissingModel is returned by NewAsker when no LanguageModel is given.
var ErrMissingModel = errors.New("mentor: missing LanguageModel")

// InvalidArgumentError indicates that a setting value is out of range.
// Configuration loading returns it for bad sampling settings so startup
// can abort with a precise message.
type InvalidArgumentError struct {
	// Parameter is the name of the invalid parameter.
	Parameter string
	// Value is the offending value.
	Value any
	// Message describes why the value is considered invalid.
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "mentor: invalid argument for parameter " + e.Parameter + ": " + e.Message
}
