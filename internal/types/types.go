package types

// Severity is the reporting level of an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so severities can be written
// as plain strings in the configuration file.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		*s = SeverityWarning
	}
	return nil
}

// Position is a location in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Issue represents a diagnostic found in the analyzed code base.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Severity   Severity
	Start      Position
	End        Position
}

// ConfigRule holds the per-rule settings from the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}
