package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/utils"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/nibzard/studycal/tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ErrCorrupt matches any *CorruptError via errors.Is.
var ErrCorrupt = errors.New("tasks file is corrupt")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CorruptError reports a task file that could not be parsed or failed
// validation.
type CorruptError struct {
	Path   string
	Errors []error
}

func (e *CorruptError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	prefix := "tasks file is corrupt"
	if e.Path != "" {
		prefix = fmt.Sprintf("tasks file %s is corrupt", e.Path)
	}
	if len(msgs) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(msgs, "; ")
}

// Is reports whether target is ErrCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// Validate checks a raw task document against the embedded schema and
// then applies semantic checks the schema cannot express.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{Valid: true}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}
	if dec.More() {
		result.fail(&ValidationError{Err: fmt.Errorf("invalid JSON: trailing data after document")})
		return result
	}

	schema, err := loadSchema()
	if err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		result.fail(fmt.Errorf("compile task schema: %w", err))
		return result
	}
	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, err)
		return result
	}

	obj, _ := doc.(map[string]interface{})
	validateDates(result, obj)
	return result
}

// ValidateEvents runs the semantic checks on an in-memory store. Save
// uses it so nothing is written that Load would treat as corrupt.
func ValidateEvents(events EventStore) *ValidationResult {
	result := &ValidationResult{Valid: true}
	for _, date := range events.Dates() {
		if _, err := calendar.ParseDateKey(date, nil); err != nil {
			result.fail(&ValidationError{Path: date, Err: err})
			continue
		}
		for i, task := range events[date] {
			path := fmt.Sprintf("%s[%d]", date, i)
			if strings.TrimSpace(task.Name) == "" {
				result.fail(&ValidationError{Path: path + ".task", Err: fmt.Errorf("missing required field")})
			}
			if _, _, err := calendar.ParseClock(task.Time); err != nil {
				result.fail(&ValidationError{Path: path + ".time", Err: err})
			}
		}
	}
	return result
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

func validateDates(result *ValidationResult, obj map[string]interface{}) {
	for key := range obj {
		if _, err := calendar.ParseDateKey(key, nil); err != nil {
			result.fail(&ValidationError{Path: key, Err: err})
		}
	}
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.fail(err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.fail(&ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
