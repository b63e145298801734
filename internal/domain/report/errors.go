package report

import "errors"

var (
	ErrNotFound                   = errors.New("daily report not found")
	ErrEmptyAttendance            = errors.New("daily report needs at least one attended worker")
	ErrAlreadyLocked              = errors.New("daily report is locked by a validation stage")
	ErrPrecedingStageNotValidated = errors.New("preceding validation stage is not validated")
	ErrAlreadyValidated           = errors.New("validation stage is already validated")
	ErrConflict                   = errors.New("daily report was modified concurrently")
	ErrInvalidStage               = errors.New("stage must be subcontractor or general_contractor")
)
