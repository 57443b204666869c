package entity

import (
	"encoding/json"
	"strconv"
)

// OrdinalMap maps "1", "2", ... to values. The Realtime Database returns
// objects with small integer keys as arrays, so both forms are accepted.
type OrdinalMap map[string]string

func (m *OrdinalMap) UnmarshalJSON(data []byte) error {
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err == nil {
		*m = obj
		return nil
	}

	var arr []*string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	out := make(OrdinalMap, len(arr))
	for i, v := range arr {
		if v != nil {
			out[strconv.Itoa(i)] = *v
		}
	}
	*m = out
	return nil
}

// Next returns the smallest positive ordinal greater than every key in m.
func (m OrdinalMap) Next() int {
	next := 1
	for k := range m {
		if n, err := strconv.Atoi(k); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}
