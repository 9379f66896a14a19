package encoding

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/illuscio-dev/spanviews-go/mimetype"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"golang.org/x/xerrors"
)

// Type helpers
type encoderMapping map[mimetype.MimeType]Encoder
type decoderMapping map[mimetype.MimeType]Decoder

// Encoder writes content of a single mimetype. The content engine which is calling
// Encode is made available through engine, allowing encoders to access engine-level
// settings.
type Encoder interface {
	Encode(engine ContentEngine, writer io.Writer, content interface{}) error
}

// Decoder reads content of a single mimetype into contentReceiver. When the receiver is
// a *interface{} the decoded tree is normalized: objects become
// map[string]interface{} and arrays []interface{}, whatever the wire format.
type Decoder interface {
	Decode(engine ContentEngine, reader io.Reader, contentReceiver interface{}) error
}

/*
ContentEngine details the contract for a content encoding engine. The renderer encodes
resolved view model trees through it, and request bodies are decoded through it, so a
service answers in whichever supported mimetype a handler selects.
*/
type ContentEngine interface {
	// Registers an encoder for a given mimetype.
	SetEncoder(mimeType mimetype.MimeType, encoder Encoder)

	// Registers a decoder for a given mimetype.
	SetDecoder(mimeType mimetype.MimeType, decoder Decoder)

	// Returns true if the engine has a registered encoder for the mimetype.
	HandlesEncode(mimeType mimetype.MimeType) bool

	// Returns true if the engine has a registered decoder for the mimetype.
	HandlesDecode(mimeType mimetype.MimeType) bool

	// Returns true if the engine has a registered encoder AND decoder for the mimetype.
	Handles(mimeType mimetype.MimeType) bool

	// Decode mimeType content from reader using the decoder for mimeType. Decoded
	// content is stored in contentReceiver.
	Decode(
		mimeType mimetype.MimeType,
		contentReceiver interface{},
		reader io.Reader,
	) error

	// Encode content as mimetype using registered mimeType to writer.
	Encode(
		mimeType mimetype.MimeType,
		content interface{},
		writer io.Writer,
	) error
}

// Options configure a new SpanEngine.
type Options struct {
	// Number of spaces JSON output is indented with. 0 writes compact JSON.
	Indent int8
}

/*
SpanEngine is the default implementation of the ContentEngine interface.

Instantiation

Use NewContentEngine() to create a new SpanEngine.

Default Mimetypes

• text/plain

• application/json, through https://godoc.org/github.com/ugorji/go/codec. Map keys are
written in sorted order so output is stable. Integers decode as int64.

• application/bson, through the official driver (go.mongodb.org/mongo-driver/bson).

• application/yaml, through gopkg.in/yaml.v2.

• application/cbor, through github.com/fxamacker/cbor/v2 in canonical mode.

Panics

If an encoder or decoder panics during execution, that panic is caught and returned as
an error.
*/
type SpanEngine struct {
	// MimeType:Encoder mapping
	encoders encoderMapping
	// MimeType:Decoder mapping
	decoders decoderMapping

	// JSON handle for default JSON encoder
	jsonHandle *codec.JsonHandle
	// BSON registry for default BSON encoder
	bsonRegistry *bsoncodec.Registry
	// CBOR modes for the default CBOR encoder
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
}

// Register an encoder for a given mimeType
func (engine *SpanEngine) SetEncoder(mimeType mimetype.MimeType, encoder Encoder) {
	engine.encoders[mimeType] = encoder
}

// Register a decoder for a given mimeType
func (engine *SpanEngine) SetDecoder(mimeType mimetype.MimeType, decoder Decoder) {
	engine.decoders[mimeType] = decoder
}

// Whether the SpanEngine has a registered encoder for mimeType.
func (engine *SpanEngine) HandlesEncode(mimeType mimetype.MimeType) bool {
	_, ok := engine.encoders[mimeType]
	return ok
}

// Whether the SpanEngine has a registered decoder for mimeType.
func (engine *SpanEngine) HandlesDecode(mimeType mimetype.MimeType) bool {
	_, ok := engine.decoders[mimeType]
	return ok
}

// Whether the SpanEngine has a registered decoder AND encoder for mimeType.
func (engine *SpanEngine) Handles(mimeType mimetype.MimeType) bool {
	return engine.HandlesEncode(mimeType) && engine.HandlesDecode(mimeType)
}

// Uses an encoder while catching panics to return as errors
func (engine *SpanEngine) safeEncode(
	encoder Encoder, writer io.Writer, content interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during encode: %v", recovered)
		}
	}()

	return encoder.Encode(engine, writer, content)
}

// Uses a decoder while catching panics to return as errors
func (engine *SpanEngine) safeDecode(
	decoder Decoder, reader io.Reader, contentReceiver interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during decode: %v", recovered)
		}
	}()

	return decoder.Decode(engine, reader, contentReceiver)
}

// Picks the mimetype for encoding / decoding objects when source or target mimetype is
// unknown. Strings go to text, everything else to JSON.
func pickContentMimeType(
	mimeType mimetype.MimeType, content interface{},
) mimetype.MimeType {
	if mimeType != mimetype.UNKNOWN {
		return mimeType
	}

	switch content.(type) {
	case string, *string:
		return mimetype.TEXT
	default:
		return mimetype.JSON
	}
}

func (engine *SpanEngine) Decode(
	mimeType mimetype.MimeType,
	contentReceiver interface{},
	reader io.Reader,
) error {
	mimeType = pickContentMimeType(mimeType, contentReceiver)

	// Close the reader if it's a closer.
	if readCloser, ok := reader.(io.ReadCloser); ok {
		defer func() {
			_ = readCloser.Close()
		}()
	}

	decoder, ok := engine.decoders[mimeType]
	if !ok {
		return xerrors.New("no decoder for " + string(mimeType))
	}

	err := engine.safeDecode(decoder, reader, contentReceiver)
	if err != nil {
		return xerrors.Errorf("decode err: %w", err)
	}

	return nil
}

func (engine *SpanEngine) Encode(
	mimeType mimetype.MimeType,
	content interface{},
	writer io.Writer,
) error {
	mimeType = pickContentMimeType(mimeType, content)

	encoder, ok := engine.encoders[mimeType]
	if !ok {
		return xerrors.New("no encoder for " + string(mimeType))
	}

	err := engine.safeEncode(encoder, writer, content)
	if err != nil {
		return xerrors.Errorf("encode err: %w", err)
	}
	return nil
}

// JSONHandle returns the ugorji handle used by the JSON encoder/decoder.
func (engine *SpanEngine) JSONHandle() *codec.JsonHandle {
	return engine.jsonHandle
}

// BSONRegistry returns the registry used by the bson encoder/decoder.
func (engine *SpanEngine) BSONRegistry() *bsoncodec.Registry {
	return engine.bsonRegistry
}

// NewContentEngine creates a SpanEngine with the default mimetypes registered.
func NewContentEngine(opts Options) (*SpanEngine, error) {
	jsonHandle := &codec.JsonHandle{}
	jsonHandle.Indent = opts.Indent
	jsonHandle.Canonical = true
	jsonHandle.SignedInteger = true
	jsonHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))

	cborEncMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, xerrors.Errorf("error building cbor encode mode: %w", err)
	}
	cborDecMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, xerrors.Errorf("error building cbor decode mode: %w", err)
	}

	engine := &SpanEngine{
		encoders:     make(encoderMapping),
		decoders:     make(decoderMapping),
		jsonHandle:   jsonHandle,
		bsonRegistry: bson.DefaultRegistry,
		cborEncMode:  cborEncMode,
		cborDecMode:  cborDecMode,
	}

	engine.SetEncoder(mimetype.JSON, &jsonEncoder{})
	engine.SetEncoder(mimetype.BSON, &bsonEncoder{})
	engine.SetEncoder(mimetype.YAML, &yamlEncoder{})
	engine.SetEncoder(mimetype.CBOR, &cborEncoder{})
	engine.SetEncoder(mimetype.TEXT, &textEncoder{})

	engine.SetDecoder(mimetype.JSON, &jsonEncoder{})
	engine.SetDecoder(mimetype.BSON, &bsonEncoder{})
	engine.SetDecoder(mimetype.YAML, &yamlEncoder{})
	engine.SetDecoder(mimetype.CBOR, &cborEncoder{})
	engine.SetDecoder(mimetype.TEXT, &textEncoder{})

	return engine, nil
}
