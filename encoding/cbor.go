package encoding

import (
	"io"
)

// CBOR encoder for SpanEngine. Output is canonical so equal trees encode to equal
// bytes.
type cborEncoder struct{}

func (encoder *cborEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	return spanEngine.cborEncMode.NewEncoder(writer).Encode(content)
}

func (encoder *cborEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)
	return decodeTree(contentReceiver, spanEngine.cborDecMode.NewDecoder(reader).Decode)
}
