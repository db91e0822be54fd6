package model

import "fmt"

// ConfigurationError reports malformed or missing input. It is fatal and never retried
type ConfigurationError struct {
	Message string
}

func (err *ConfigurationError) Error() string {
	return err.Message
}

func configurationErrorf(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// SearchExhaustedError is returned when neither the strict nor the permissive search found a timetable
type SearchExhaustedError struct {
	Report *Report
}

func (err *SearchExhaustedError) Error() string {
	if err.Report == nil {
		return "no valid timetable found"
	}
	return err.Report.String()
}
