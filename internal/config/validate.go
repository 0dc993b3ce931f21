package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// SchemaError lists every schema violation of a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return "schema violation: " + e.Problems[0]
	}
	return fmt.Sprintf("%d schema violations, first: %s", len(e.Problems), e.Problems[0])
}

// Validate checks a YAML document against the configuration schema. It is
// stricter than Parse: unknown unit names and orientations are reported
// instead of falling back to defaults.
func Validate(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	f, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	doc := ctx.BuildFile(f)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build %s: %w", filename, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#File")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}
