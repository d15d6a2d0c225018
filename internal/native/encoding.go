package native

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

var _ json.Unmarshaler = (*Encoding)(nil)

// Encoding is the encoding used for source strings sent to a native process. Currently only
// UTF-8 or Base64 encodings are supported. You should use UTF-8 if you can
// and Base64 as a fallback.
type Encoding string

const (
	UTF8   = Encoding("utf8")
	Base64 = Encoding("base64")
)

func (e *Encoding) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*e = Encoding(strings.ToLower(str))
	return nil
}

// Encode converts UTF8 string into specified Encoding.
func (e Encoding) Encode(s string) (string, error) {
	switch e {
	case UTF8, "":
		return s, nil
	case Base64:
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	default:
		return "", fmt.Errorf("invalid encoding: %v", e)
	}
}

// Decode converts specified Encoding into UTF8.
func (e Encoding) Decode(s string) (string, error) {
	switch e {
	case UTF8, "":
		return s, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("invalid encoding: %v", e)
	}
}

var _ json.Unmarshaler = (*Status)(nil)

// Status of a native response.
type Status string

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = Status(strings.ToLower(str))
	return nil
}

const (
	StatusOK = Status("ok")
	// StatusError is replied when the input is invalid, for example a syntax error.
	StatusError = Status("error")
	// StatusFatal is replied when the process could not handle the request at all.
	StatusFatal = Status("fatal")
)

// Header is the common part of all native responses.
type Header struct {
	Status Status   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// Err returns an error for a non-ok status. Fatal responses are wrapped into ErrFailure,
// errors reported with StatusError are returned as is and should be wrapped by the caller.
func (h Header) Err() error {
	if h.Status == StatusOK {
		return nil
	}
	msg := strings.Join(h.Errors, "; ")
	if msg == "" {
		msg = "no error message"
	}
	err := fmt.Errorf("%s", msg)
	switch h.Status {
	case StatusError:
		return err
	case StatusFatal:
		return ErrFailure.Wrap(err)
	}
	return ErrFailure.Wrap(fmt.Errorf("unsupported status: %q", h.Status))
}
