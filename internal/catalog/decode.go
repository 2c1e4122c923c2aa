package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodePage reads a catalog response. The catalog returns data as an
// array, or as a bare object when the page holds a single record.
func decodePage(r io.Reader) ([]Character, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errors.New("response has no data")
	}

	var chars []Character
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &chars); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	case '{':
		var one Character
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
		chars = []Character{one}
	default:
		return nil, fmt.Errorf("data is neither array nor object")
	}

	for i, ch := range chars {
		if ch.ID == "" || ch.Name == "" {
			return nil, fmt.Errorf("record %d has no id or name", i)
		}
	}
	return chars, nil
}
