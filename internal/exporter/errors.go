package exporter

import (
	"errors"
	"fmt"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNameExhausted     = errors.New("could not find a free file name")
)

// Op names the export phase that failed.
type Op string

const (
	OpDispatch Op = "dispatch"
	OpValidate Op = "validate"
	OpCreate   Op = "create"
	OpRender   Op = "render"
	OpWrite    Op = "write"
	OpInspect  Op = "inspect"
	OpCancel   Op = "cancel"
)

// ExportError is the failure half of an export. Err is the original cause.
type ExportError struct {
	Format models.ExportFormat
	Op     Op
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %s: %v", e.Format, e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
