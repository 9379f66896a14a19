/*
Scalar codecs for values the wire formats cannot represent natively.

Encoders are matched by Go type and used on the way out. Decoders are matched by a regular
expression against the textual form of a scalar and used on the way in. Both tables are
ordered: the first matching entry wins, in registration order.

	registry := codecs.NewDefaultRegistry()
	encoder := registry.Encoder(time.Now())                 // DateTimeCodec
	decoder := registry.Decoder("Sun Jan 07 10:30:00 2024") // DateTimeCodec
*/
package codecs

import (
	"reflect"
	"regexp"
	"strconv"
	"sync"

	"golang.org/x/xerrors"
)

// Encoder turns a domain value into a wire scalar.
type Encoder interface {
	Encode(value interface{}) (interface{}, error)
}

// Decoder turns a wire scalar back into a domain value.
type Decoder interface {
	Decode(value string) (interface{}, error)
}

// Codec is implemented by types that both encode and decode.
type Codec interface {
	Encoder
	Decoder
}

type encoderEntry struct {
	valueType reflect.Type
	encoder   Encoder
}

type decoderEntry struct {
	pattern string
	matcher *regexp.Regexp
	decoder Decoder
}

// Registry holds the ordered encoder and decoder tables. It is safe for concurrent use;
// in practice it is filled at startup and only read afterwards.
type Registry struct {
	lock     sync.RWMutex
	encoders []encoderEntry
	decoders []decoderEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry returns a registry with the built in codecs registered.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	RegisterDefaults(registry)
	return registry
}

// RegisterEncoder associates valueType with encoder. An existing entry for the identical
// type is replaced in place and keeps its position, otherwise the entry is appended.
// Interface types match every value implementing them.
func (registry *Registry) RegisterEncoder(valueType reflect.Type, encoder Encoder) {
	registry.lock.Lock()
	defer registry.lock.Unlock()

	for index, entry := range registry.encoders {
		if entry.valueType == valueType {
			registry.encoders[index].encoder = encoder
			return
		}
	}
	registry.encoders = append(registry.encoders, encoderEntry{valueType, encoder})
}

// Encoder returns the first registered encoder whose type matches value, or nil.
// A value matches when it has the registered type, is a pointer to it, or implements
// it when the registered type is an interface. Nil pointers never match.
func (registry *Registry) Encoder(value interface{}) Encoder {
	if value == nil {
		return nil
	}
	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Ptr && reflected.IsNil() {
		return nil
	}
	valueType := reflected.Type()

	registry.lock.RLock()
	defer registry.lock.RUnlock()

	for _, entry := range registry.encoders {
		if typeMatches(valueType, entry.valueType) {
			return entry.encoder
		}
	}
	return nil
}

func typeMatches(valueType reflect.Type, registered reflect.Type) bool {
	if valueType == registered {
		return true
	}
	if valueType.Kind() == reflect.Ptr && valueType.Elem() == registered {
		return true
	}
	return registered.Kind() == reflect.Interface && valueType.Implements(registered)
}

// RegisterDecoder associates a regular expression with decoder. The expression always
// has to match the whole textual value. Registering the same pattern text again
// replaces its decoder in place.
func (registry *Registry) RegisterDecoder(pattern string, decoder Decoder) error {
	matcher, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return xerrors.Errorf("error compiling decoder pattern %q: %w", pattern, err)
	}

	registry.lock.Lock()
	defer registry.lock.Unlock()

	for index, entry := range registry.decoders {
		if entry.pattern == pattern {
			registry.decoders[index].decoder = decoder
			registry.decoders[index].matcher = matcher
			return nil
		}
	}
	registry.decoders = append(registry.decoders, decoderEntry{pattern, matcher, decoder})
	return nil
}

// Decoder returns the first registered decoder whose pattern matches value, or nil.
// Only strings and integers are checked; integers are matched in base 10.
func (registry *Registry) Decoder(value interface{}) Decoder {
	text, ok := scalarText(value)
	if !ok {
		return nil
	}

	registry.lock.RLock()
	defer registry.lock.RUnlock()

	for _, entry := range registry.decoders {
		if entry.matcher.MatchString(text) {
			return entry.decoder
		}
	}
	return nil
}

func scalarText(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(typed).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(typed).Uint(), 10), true
	default:
		return "", false
	}
}

// Encode runs value through its encoder. handled is false when no encoder matches.
func (registry *Registry) Encode(value interface{}) (encoded interface{}, handled bool, err error) {
	encoder := registry.Encoder(value)
	if encoder == nil {
		return value, false, nil
	}
	encoded, err = encoder.Encode(value)
	return encoded, true, err
}

// Decode runs a scalar through its decoder, returning it unchanged when none matches.
// Integers that match a pattern are handed to the decoder in their base 10 form.
func (registry *Registry) Decode(value interface{}) (interface{}, error) {
	decoder := registry.Decoder(value)
	if decoder == nil {
		return value, nil
	}
	text, _ := scalarText(value)
	return decoder.Decode(text)
}
