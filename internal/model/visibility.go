package model

import "encoding/json"

// Visible wraps a profile value together with a visibility flag.
// Hidden values serialize as null so private contact details never
// leak through list endpoints.
type Visible[T any] struct {
	Value  T    `json:"value"`
	Public bool `json:"public"`
}

func NewVisible[T any](value T, public bool) Visible[T] {
	return Visible[T]{Value: value, Public: public}
}

func (v Visible[T]) MarshalJSON() ([]byte, error) {
	if !v.Public {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

func (v *Visible[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		v.Value = zero
		v.Public = false
		return nil
	}
	v.Public = true
	return json.Unmarshal(data, &v.Value)
}
