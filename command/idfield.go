package command

import (
	"encoding/json"
	"strconv"

	"github.com/dynacharting/core/internal/dcerr"
)

// idField accepts an Id encoded either as a JSON number or as a decimal string,
// per spec.md §4.D "Id accessors". A non-digit string is a validation error,
// surfaced lazily via idField.Parse rather than during UnmarshalJSON so the
// caller gets a stable MISSING_FIELD/INVALID_ID code instead of a raw parse panic.
type idField struct {
	raw     json.RawMessage
	present bool
}

func (f *idField) UnmarshalJSON(data []byte) error {
	f.raw = append([]byte(nil), data...)
	f.present = true
	return nil
}

// Parse resolves the field to a dcerr.Id. present is false if the field was absent.
// err is non-nil if the field was present but malformed (wrong JSON type, or a
// string containing non-digit characters).
func (f idField) Parse() (id dcerr.Id, present bool, err error) {
	if !f.present || len(f.raw) == 0 || string(f.raw) == "null" {
		return 0, false, nil
	}

	var asNumber uint64
	if jsonErr := json.Unmarshal(f.raw, &asNumber); jsonErr == nil {
		return dcerr.Id(asNumber), true, nil
	}

	var asString string
	if jsonErr := json.Unmarshal(f.raw, &asString); jsonErr == nil {
		for _, r := range asString {
			if r < '0' || r > '9' {
				return 0, true, errNonDigitId
			}
		}
		n, convErr := strconv.ParseUint(asString, 10, 64)
		if convErr != nil {
			return 0, true, errNonDigitId
		}
		return dcerr.Id(n), true, nil
	}

	return 0, true, errInvalidIdType
}
