package encoding

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/xerrors"
)

// Handles encoding to / decoding from text/plain
type textEncoder struct{}

func (handler *textEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	_, err := io.WriteString(writer, fmt.Sprint(content))
	return err
}

func (handler *textEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	buffer := new(bytes.Buffer)
	if _, err := buffer.ReadFrom(reader); err != nil {
		return err
	}

	switch receiver := contentReceiver.(type) {
	case *string:
		*receiver = buffer.String()
	case *interface{}:
		*receiver = buffer.String()
	default:
		return xerrors.New(
			"content receiver must be a string pointer to receive a string.",
		)
	}

	return nil
}
