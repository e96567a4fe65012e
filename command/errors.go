package command

import "github.com/dynacharting/core/internal/dcerr"

var (
	errNonDigitId    = dcerr.New(dcerr.CodeInvalidId, "id must be a non-negative integer or decimal string")
	errInvalidIdType = dcerr.New(dcerr.CodeInvalidId, "id must be a JSON number or string")
)
