package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError points at a bad configuration file, and at the offending
// line or key when one is known.
type ValidationError struct {
	File   string
	Line   int
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("%s: %s %s", e.File, e.Key, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
}

// yamlLine matches the position prefix yaml.v3 puts on syntax errors.
var yamlLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// checkYAMLFile parses path as YAML before koanf sees it, so a syntax error
// is reported with its line. Missing and blank files pass.
func checkYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ValidationError{File: path, Reason: err.Error()}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var doc yaml.Node
	err = yaml.Unmarshal(data, &doc)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{File: path, Reason: strings.Join(typeErr.Errors, "; ")}
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ValidationError{File: path, Line: line, Reason: m[2]}
	}
	return &ValidationError{File: path, Reason: strings.TrimPrefix(err.Error(), "yaml: ")}
}

var structValidator = newStructValidator()

// newStructValidator reports fields by their koanf key instead of the Go
// field name.
func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkValues applies the validate tags of Configuration and the rule that
// document names stay inside the repository. The first problem found is
// returned.
func checkValues(cfg *Configuration, source string) error {
	err := structValidator.Struct(cfg)
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		fe := fieldErrs[0]
		return &ValidationError{File: source, Key: dottedKey(fe), Reason: describeRule(fe)}
	case err != nil:
		return &ValidationError{File: source, Reason: err.Error()}
	}

	documents := [...]struct{ key, name string }{
		{"devlog_file", cfg.DevlogFile},
		{"changelog_file", cfg.ChangelogFile},
	}
	for _, doc := range documents {
		if !filepath.IsLocal(doc.name) {
			return &ValidationError{File: source, Key: doc.key, Reason: "must be a path inside the repository"}
		}
	}
	return nil
}

// dottedKey turns "Configuration.scan.max_depth" into "scan.max_depth".
func dottedKey(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return "fails the " + fe.Tag() + " rule"
}
