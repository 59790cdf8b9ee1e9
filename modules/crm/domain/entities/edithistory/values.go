package edithistory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Canonical value encoding for audit entries. Every tracked field type maps
// to a *string where nil means "no value"; absent and empty therefore stay
// distinguishable, and a field that literally contains the text "null"
// round-trips unchanged.

func EncodeString(v string) *string {
	return &v
}

func EncodeUUID(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func EncodeTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.UTC().Format(time.RFC3339Nano)
	return &s
}

func EncodeDecimal(v decimal.Decimal) *string {
	s := v.String()
	return &s
}

func DecodeTime(v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func DecodeUUID(v *string) (*uuid.UUID, error) {
	if v == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Equal compares two encoded values treating nil as distinct from any
// non-nil value.
func Equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
