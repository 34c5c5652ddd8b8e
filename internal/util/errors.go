package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout dfview
var (
	ErrEmptyDataset  = errors.New("dataset has no rows")
	ErrNoDatabaseURL = errors.New("no database URL given")
	ErrNoQuery       = errors.New("no query given")
	ErrQueryTimeout  = errors.New("query timed out")
)

// DfError is a structured error with context and suggestions
type DfError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *DfError) Error() string {
	if e.Err != nil {
		return e.Title + ": " + e.Err.Error()
	}
	return e.Title
}

func (e *DfError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *DfError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}
	if e.Err != nil && e.Message == "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Err))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new DfError
func NewError(title string) *DfError {
	return &DfError{Title: title}
}

// WithMessage adds a detailed message
func (e *DfError) WithMessage(msg string) *DfError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *DfError) WithContext(ctx string) *DfError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *DfError) WithCauses(causes ...string) *DfError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *DfError) WithSuggestion(sug string) *DfError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *DfError) WithSuggestions(sugs ...string) *DfError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *DfError) Wrap(err error) *DfError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// LoadError returns a structured error for a file that could not be read
func LoadError(path string, err error) *DfError {
	return NewError(fmt.Sprintf("Cannot load '%s'", path)).
		WithCauses(
			"The file does not exist or is not readable",
			"The format could not be inferred from the extension",
			"JSON and YAML input must be a list of records",
		).
		WithSuggestions(
			fmt.Sprintf("dfview view %s --format csv   # Force a format", path),
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *DfError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"psql \"$DATABASE_URL\" -c 'select 1'   # Check the connection",
			"dfview config set sql.url <url>       # Store a default URL",
		).
		Wrap(err)
}

// WriteQueryError returns a structured error for a rejected statement
func WriteQueryError() *DfError {
	return NewError("Only read-only queries are allowed").
		WithMessage("dfview runs queries in a read-only transaction and rejects data or schema changes").
		WithSuggestion("dfview sql \"SELECT * FROM my_table\"")
}

// EmptyDatasetError returns a structured error for data without rows
func EmptyDatasetError(name string) *DfError {
	return NewError(fmt.Sprintf("'%s' has no rows", name)).
		Wrap(ErrEmptyDataset)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *DfError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *DfError {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}
