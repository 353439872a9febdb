package status

// Severity distinguishes a warning (parsing continues) from a fatal error
// (parsing halts, see spec.md §7).
type Severity uint8

const (
	Fatal Severity = iota
	Warning
)

// Error is the concrete error type the framer produces. It carries the
// closed Code alongside the severity, so callers who only care about the
// code (e.g. for metrics) can type-assert without losing the distinction
// spec.md §7 requires between warnings and fatal errors.
type Error struct {
	Code     Code
	Severity Severity
}

func NewError(code Code) error {
	return Error{Code: code, Severity: Fatal}
}

func NewWarning(code Code) error {
	return Error{Code: code, Severity: Warning}
}

func (e Error) Error() string {
	return e.Code.String()
}

func (e Error) IsFatal() bool {
	return e.Severity == Fatal
}
