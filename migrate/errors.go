package migrate

import (
	"fmt"

	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/schema"
)

// OperationNotSupportedError reports an operation a dialect cannot express.
// It is raised by pre-processors and generators at the moment the operation
// is encountered; the differ itself never fails.
type OperationNotSupportedError struct {
	Dialect   dialect.Name
	Operation OperationKind
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Operation)
}

// InvalidOperationSequenceError reports a pre-processor invariant violation.
// It is fatal: the caller must abort applying the diff.
type InvalidOperationSequenceError struct {
	Table  schema.QualifiedName
	Reason string
}

func (e *InvalidOperationSequenceError) Error() string {
	return fmt.Sprintf("invalid operation sequence on %s: %s", e.Table, e.Reason)
}
