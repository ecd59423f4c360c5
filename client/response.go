package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"io"
	"strings"
)

// Response is the decoded top-level JSON object returned by the endpoint
type Response struct {
	// Fields holds every top-level key, unchanged
	Fields map[string]interface{}

	Data       json.RawMessage
	Extensions map[string]json.RawMessage
}

func (r *Response) UnmarshalData(t interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}

	return json.Unmarshal(r.Data, t)
}

func (r *Response) UnmarshalExtension(name string, t interface{}) error {
	if r.Extensions == nil {
		return nil
	}

	ex, ok := r.Extensions[name]
	if !ok {
		return nil
	}

	return json.Unmarshal(ex, t)
}

type envelope struct {
	Data       json.RawMessage            `json:"data"`
	Extensions map[string]json.RawMessage `json:"extensions"`
}

func decodeResponse(body []byte) (*Response, error) {
	// UseNumber keeps integers beyond 2^53 intact in Fields
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value")
	}

	fields, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// extensions present but not an object; keep the untyped view only
		env = envelope{}
		if d, ok := fields["data"]; ok {
			env.Data, _ = json.Marshal(d)
		}
	}

	if bytes.Equal(env.Data, []byte("null")) {
		env.Data = nil
	}

	return &Response{
		Fields:     fields,
		Data:       env.Data,
		Extensions: env.Extensions,
	}, nil
}

// graphQLErrors reports the errors array when present, an array and non-empty
func graphQLErrors(fields map[string]interface{}) ([]interface{}, bool) {
	raw, ok := fields["errors"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, false
	}

	return raw, true
}

func joinErrorMessages(raw []interface{}) string {
	msgs := make([]string, 0, len(raw))
	for _, e := range raw {
		msgs = append(msgs, errorMessage(e))
	}

	return strings.Join(msgs, ", ")
}

func errorMessage(e interface{}) string {
	m, ok := e.(map[string]interface{})
	if !ok {
		return "Unknown error"
	}

	switch msg := m["message"].(type) {
	case nil:
		return "Unknown error"
	case string:
		return msg
	default:
		return fmt.Sprint(msg)
	}
}

// toGQLErrors gives a typed view of the raw errors. Entries that do not fit
// the gqlerror shape keep only their message.
func toGQLErrors(raw []interface{}) gqlerror.List {
	list := make(gqlerror.List, 0, len(raw))
	for _, e := range raw {
		var gerr gqlerror.Error
		b, err := json.Marshal(e)
		if err == nil {
			err = json.Unmarshal(b, &gerr)
		}
		if err != nil {
			gerr = gqlerror.Error{}
		}
		if gerr.Message == "" {
			gerr.Message = errorMessage(e)
		}

		g := gerr
		list = append(list, &g)
	}

	return list
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	}

	return "unknown"
}
