package types

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type SuccessEnvelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

// ErrorEnvelope uses status "fail" for client errors and "error" for server faults.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
