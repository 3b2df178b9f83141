package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedDocument = errors.New("statistics document is malformed")

// EncodeDocument writes users as one JSON object keyed by username, keeping
// the slice order for the keys.
func EncodeDocument(users []NamedStats) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range users {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(u.Username)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(u.Stats)
		if err != nil {
			return nil, fmt.Errorf("encode stats of %s: %w", u.Username, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// DecodeDocument reads a document written by EncodeDocument. Key order is
// preserved and every summary is recomputed from its attempts. Empty input
// is an empty document.
func DecodeDocument(data []byte) ([]NamedStats, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []NamedStats{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedDocument)
	}

	users := []NamedStats{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a username key", ErrMalformedDocument)
		}

		var u UserStats
		if err := dec.Decode(&u); err != nil {
			return nil, fmt.Errorf("%w: user %s: %v", ErrMalformedDocument, name, err)
		}
		if u.Attempts == nil {
			u.Attempts = []AttemptRecord{}
		}
		u.Summary = Summarize(u.Attempts)
		users = append(users, NamedStats{Username: name, Stats: u})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return users, nil
}
