package transport

import (
	"context"
	"encoding/json"
	"net/http"
)

// OperationRequest is the JSON body POSTed to the endpoint.
// Variables is always present on the wire, an empty object when unset.
type OperationRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewOperationRequestFromRequest(req *Request) OperationRequest {
	variables := req.Variables
	if variables == nil {
		variables = map[string]interface{}{}
	}

	return OperationRequest{
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     variables,
	}
}

// Encode marshals the operation into its wire form
func (r OperationRequest) Encode() ([]byte, error) {
	return json.Marshal(r)
}

type Request struct {
	Context context.Context

	OperationName string
	Query         string
	Variables     map[string]interface{}
	Header        http.Header

	// Body is the encoded OperationRequest, see OperationRequest.Encode
	Body []byte
}

// RawResponse is what came back over the wire, before any GraphQL
// interpretation. Non-2xx statuses are not errors at this level.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Transport interface {
	Request(req *Request) (*RawResponse, error)
}
