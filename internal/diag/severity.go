package diag

// Severity ranks a diagnostic. A compile fails on the first SevError; the
// lower levels only come from build bookkeeping such as skipped inputs.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// SARIFLevel maps s onto the result levels of SARIF 2.1.0.
func (s Severity) SARIFLevel() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "note"
}

// Fatal reports whether s stops the output of a file.
func (s Severity) Fatal() bool {
	return s >= SevError
}
