package event

import "encoding/json"

// DecodePayload returns an event payload as T. Payloads published in
// process are already T or *T; payloads read back from the dead-letter file
// are generic maps and go through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var out T
	raw, err := json.Marshal(input)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
