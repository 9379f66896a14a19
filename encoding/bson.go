package encoding

import (
	"bytes"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// BSON Encoder for writing BSON Data to content. Only documents can be written, so the
// content must encode to a BSON document (maps and structs do, view model output always
// does).
type bsonEncoder struct{}

func (encoder *bsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	var document bson.Raw
	if incomingRaw, isRaw := content.(bson.Raw); isRaw {
		document = incomingRaw
	} else {
		marshalled, err := bson.MarshalWithRegistry(spanEngine.bsonRegistry, content)
		if err != nil {
			return err
		}
		document = marshalled
	}

	_, err := writer.Write(document)
	return err
}

func (encoder *bsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	spanEngine := engine.(*SpanEngine)

	buffer := new(bytes.Buffer)
	if _, err := buffer.ReadFrom(reader); err != nil {
		return err
	}

	// BSON cannot unmarshal into a bare interface, so trees go through a document map.
	return decodeTree(contentReceiver, func(target interface{}) error {
		if treeTarget, ok := target.(*interface{}); ok {
			document := make(map[string]interface{})
			err := bson.UnmarshalWithRegistry(
				spanEngine.bsonRegistry, buffer.Bytes(), &document,
			)
			*treeTarget = document
			return err
		}
		return bson.UnmarshalWithRegistry(
			spanEngine.bsonRegistry, buffer.Bytes(), target,
		)
	})
}
