// Package jsonlines implements a stream of JSON values separated by newlines,
// as used to talk to native parser and printer processes.
package jsonlines

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

const (
	// DefaultBufferSize is the default buffer size for decoding. It will
	// be used whenever the given reader is not buffered.
	DefaultBufferSize = 1024 * 1024 * 4
)

// Encoder encodes JSON lines.
type Encoder interface {
	// Encode writes the value as a single JSON line.
	Encode(interface{}) error
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// Decoder decodes JSON lines.
type Decoder interface {
	// Decode decodes the next JSON line into the given value.
	Decode(interface{}) error
}

type lineReader interface {
	ReadLine() ([]byte, bool, error)
	ReadSlice(delim byte) ([]byte, error)
}

type decoder struct {
	r lineReader
}

// NewDecoder creates a new decoder with the given reader. If the given reader
// is not buffered, it will be wrapped with a *bufio.Reader.
func NewDecoder(r io.Reader) Decoder {
	lr, ok := r.(lineReader)
	if !ok {
		lr = bufio.NewReaderSize(r, DefaultBufferSize)
	}
	return &decoder{r: lr}
}

// drain reads and discards everything until EOF or an error.
func (d *decoder) drain() error {
	for {
		_, err := d.r.ReadSlice('\n')
		switch err {
		case nil, bufio.ErrBufferFull:
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}

func (d *decoder) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, more, err := d.r.ReadLine()
		if err != nil {
			if !more && !isTimeout(err) {
				// unblock the writer on the other side
				if derr := d.drain(); derr != nil {
					err = fmt.Errorf("%v; cannot discard the input: %v", err, derr)
				}
			}
			return nil, err
		}
		line = append(line, chunk...)
		if !more {
			return line, nil
		}
	}
}

func isTimeout(err error) bool {
	e, ok := err.(interface{ Timeout() bool })
	return ok && e.Timeout()
}

// Decode decodes the next line in the reader.
// It does not check JSON for well-formedness before decoding, so in case of
// error, the structure might be half-filled.
func (d *decoder) Decode(v interface{}) error {
	line, err := d.readLine()
	if err != nil {
		return err
	}
	if o, ok := v.(json.Unmarshaler); ok {
		return o.UnmarshalJSON(line)
	}
	return json.Unmarshal(line, v)
}
