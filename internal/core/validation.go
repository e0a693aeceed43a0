package core

// validation.go checks uploaded tables against their dataset specs.
//
// Only header presence is checked here. Cell-level problems (bad dates,
// non-numeric prices) are not validation failures: the transforms count
// and drop or zero them as their rules require.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDataset is returned when a kind has no registered spec.
var ErrUnknownDataset = errors.New("unknown dataset kind")

// SchemaError reports every required column missing from a table.
type SchemaError struct {
	Kind    DatasetKind
	Missing []string // Display names, in spec order
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s file missing required columns: %s",
		e.Kind.Label(), strings.Join(e.Missing, ", "))
}

// ValidateColumns verifies that t has every required column for kind.
// A field with alternates is satisfied by any one of its names.
// Returns nil when valid, or a *SchemaError naming all missing columns.
func ValidateColumns(t *Table, kind DatasetKind) error {
	spec, ok := Spec(kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDataset, kind)
	}
	if t == nil {
		return fmt.Errorf("%w: %s", ErrMissingInput, spec.Label)
	}

	idx := t.Index()
	var missing []string
	for _, f := range spec.FieldSpecs {
		if !f.Required {
			continue
		}
		if _, ok := f.Resolve(idx); !ok {
			missing = append(missing, f.DisplayName())
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Kind: kind, Missing: missing}
	}
	return nil
}

// validate runs ValidateColumns and reports a failure through rep.
func validate(t *Table, kind DatasetKind, rep Reporter) error {
	err := ValidateColumns(t, kind)
	if err == nil {
		return nil
	}
	var se *SchemaError
	if errors.As(err, &se) {
		rep.Error("Error: " + se.Error())
	} else {
		rep.ErrorDetail(fmt.Sprintf("Error: %s file could not be validated", kind.Label()), err)
	}
	return err
}
