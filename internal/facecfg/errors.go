package facecfg

import "errors"

// Top-level error categories
var (
	ErrFailedToLoadConfig     = errors.New("failed to load face definition")
	ErrFailedToValidateConfig = errors.New("failed to validate face definition")
	ErrUnsupportedConfigVer   = errors.New("unsupported face definition version")
)

// Validation specific errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrDuplicateID          = errors.New("duplicate ID")
	ErrInvalidValue         = errors.New("invalid value")
	ErrZeroAreaBounds       = errors.New("slot bounds have no area")
	ErrUnknownDataType      = errors.New("unknown complication data type")
	ErrUnknownColorName     = errors.New("unknown color name")
	ErrInvalidInterval      = errors.New("invalid frame interval")
)
