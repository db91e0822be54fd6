package model

type Timetabler interface {
	// Build returns a conflict-free timetable, a *ConfigurationError for unusable input or a *SearchExhaustedError
	// when neither the strict nor the permissive search finds one
	Build(
		modelInput ModelInput,
	) (timetable Timetable, err error)

	Verify(
		timetable Timetable,
		modelInput ModelInput,
	) bool
}
