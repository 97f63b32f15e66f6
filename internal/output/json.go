package output

import (
	"encoding/json"
	"errors"
	"io"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string      `json:"schema_version"`
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
	ErrorCode     string      `json:"error_code,omitempty"`
}

// recoverableError mirrors models.RecoverableError without importing it.
type recoverableError interface {
	error
	ErrorCode() string
	SuggestedAction() string
}

// Config controls where and how JSON is written.
type Config struct {
	Writer io.Writer
	Pretty bool
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response
func Error(err error) Response {
	r := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var re recoverableError
	if errors.As(err, &re) {
		r.ErrorCode = re.ErrorCode()
	}
	return r
}

// PrintWith encodes v as a single JSON document to cfg.Writer.
func PrintWith(cfg Config, v interface{}) error {
	enc := json.NewEncoder(cfg.Writer)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
