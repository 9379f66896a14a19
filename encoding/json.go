package encoding

import (
	"io"

	"github.com/ugorji/go/codec"
)

// default JSON encoder for SpanEngine.
type jsonEncoder struct{}

func (encoder *jsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	jsonEncoder := codec.NewEncoder(writer, spanEngine.jsonHandle)
	return jsonEncoder.Encode(content)
}

func (encoder *jsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	jsonDecoder := codec.NewDecoder(reader, spanEngine.jsonHandle)
	return decodeTree(contentReceiver, jsonDecoder.Decode)
}
