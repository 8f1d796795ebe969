package wire

import "errors"

var (
	errNotAStruct              = errors.New("not a struct type")
	errUnknownKind             = errors.New("unknown field kind")
	errUnknownSelector         = errors.New("selectFrom references an unregistered selector id")
	errArrayFieldNotSlice      = errors.New("array/arrayPrimitive field is not a slice")
	errChecksumFieldNotInteger = errors.New("checksum field is not a fixed-width integer type")
	errMissingTerminator       = errors.New("stringTerminated field is missing a terminator")
	errSelectorNoMatch         = errors.New("no selector alternative matched")
	errUnknownConverter        = errors.New("converter references an unregistered converter id")
	errUnknownValidator        = errors.New("validator references an unregistered validator id")
	errConverterTypeMismatch   = errors.New("converter type is incompatible with its field")
	errUnknownChecksumAlgorithm = errors.New("checksum field references an unregistered algorithm")
	errChecksumRangeOutOfBounds = errors.New("checksum covered range is out of bounds")
	errEndPatternMismatch      = errors.New("trailing byte pattern does not match the declared end pattern")
)
