package profile

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON value that tells an absent key apart from an
// explicit null. Set is true whenever the key was present; Value is nil for
// null.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// apply overwrites dst when the field was present.
func (f Field[T]) apply(dst **T) {
	if f.Set {
		*dst = f.Value
	}
}
