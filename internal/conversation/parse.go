package conversation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type fieldKind int

const (
	kindText fieldKind = iota
	kindFloat
	kindInt
	kindPositiveInt
	kindDate
)

type fieldSpec struct {
	name string
	kind fieldKind
}

// InputError reports which named field of a comma-separated line failed and
// why. Both strings are user-facing Spanish.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.Field, e.Reason)
}

// parseLine splits a comma-separated line against the field specs and
// validates each value. A wrong field count or a bad value comes back as an
// *InputError naming the offending field, so the flow can re-prompt with a
// message better than "wrong count".
func parseLine(line string, specs []fieldSpec) ([]string, error) {
	parts := strings.Split(line, ",")
	if len(parts) != len(specs) {
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i] = s.name
		}
		return nil, &InputError{
			Field:  strings.Join(names, ", "),
			Reason: fmt.Sprintf("esperaba %d datos separados por coma y recibí %d", len(specs), len(parts)),
		}
	}

	values := make([]string, len(parts))
	for i, raw := range parts {
		v := strings.TrimSpace(raw)
		spec := specs[i]
		if v == "" {
			return nil, &InputError{Field: spec.name, Reason: "no puede estar vacío"}
		}
		switch spec.kind {
		case kindFloat:
			if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err != nil {
				return nil, &InputError{Field: spec.name, Reason: "debe ser un número"}
			}
		case kindInt:
			if _, err := strconv.Atoi(v); err != nil {
				return nil, &InputError{Field: spec.name, Reason: "debe ser un número entero"}
			}
		case kindPositiveInt:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, &InputError{Field: spec.name, Reason: "debe ser un número entero"}
			}
			if n <= 0 {
				return nil, &InputError{Field: spec.name, Reason: "debe ser mayor que cero"}
			}
		case kindDate:
			if _, err := time.Parse(dateLayout, v); err != nil {
				return nil, &InputError{Field: spec.name, Reason: "debe ser una fecha AAAA-MM-DD"}
			}
		}
		values[i] = v
	}
	return values, nil
}

func parseFloatValue(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}

func parseIntValue(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseDateValue(s string) time.Time {
	t, _ := time.Parse(dateLayout, strings.TrimSpace(s))
	return t
}

// isYes and isNo accept the confirmation spellings the bot's users actually
// type.
func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "s", "yes":
		return true
	}
	return false
}

func isNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "n":
		return true
	}
	return false
}
