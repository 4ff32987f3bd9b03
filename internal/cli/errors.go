package cli

import (
	"fmt"
	"strings"

	"timepick-cli/internal/constraint"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type disabledError struct {
	field   string
	value   string
	reasons []constraint.Check
}

func (e disabledError) Error() string {
	if len(e.reasons) == 0 {
		return fmt.Sprintf("%s: %s cannot be selected", e.field, e.value)
	}
	rs := make([]string, 0, len(e.reasons))
	for _, r := range e.reasons {
		rs = append(rs, string(r))
	}
	return fmt.Sprintf("%s: %s is disabled (%s)", e.field, e.value, strings.Join(rs, ", "))
}
