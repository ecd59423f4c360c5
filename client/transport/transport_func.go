package transport

import "fmt"

type Func func(*Request) (*RawResponse, error)

func (f Func) Request(req *Request) (*RawResponse, error) {
	return f(req)
}

// Mock routes requests by their exact query string
type Mock map[string]Func

func (m Mock) Request(req *Request) (*RawResponse, error) {
	f, ok := m[req.Query]
	if !ok {
		return nil, fmt.Errorf("no mock for query %q", req.Query)
	}

	return f(req)
}

// NewMockResponse builds a RawResponse with a JSON body
func NewMockResponse(status int, body string) *RawResponse {
	return &RawResponse{
		StatusCode: status,
		Body:       []byte(body),
	}
}
