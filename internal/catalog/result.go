package catalog

import "encoding/json"

// Result is the normalized outcome of an upstream call: either Data on
// success or Error (and optionally Code) on failure.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// Failure codes attached to transport-level errors.
const (
	CodeAborted     = "ECONNABORTED"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
	CodeNetwork     = "ERR_NETWORK"
)

// OK wraps v as a successful result.
func OK(v any) Result {
	b, err := json.Marshal(v)
	if err != nil {
		return Fail(err.Error(), "")
	}
	return Result{Success: true, Data: b}
}

// Fail builds a failed result.
func Fail(msg, code string) Result {
	return Result{Success: false, Error: msg, Code: code}
}

// Decode unmarshals the payload of a successful result into v.
func (r Result) Decode(v any) error {
	if !r.Success {
		return &ResultError{Message: r.Error, Code: r.Code}
	}
	return json.Unmarshal(r.Data, v)
}

// ResultError exposes a failed Result as an error.
type ResultError struct {
	Message string
	Code    string
}

func (e *ResultError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}
