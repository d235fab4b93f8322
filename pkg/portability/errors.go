package portability

// Operation names used in errors.
const (
	OpExport = "export"
	OpImport = "import"
)

// Error is returned by ExportOpenAPI and ImportOpenAPI.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "openapi " + e.Op + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
