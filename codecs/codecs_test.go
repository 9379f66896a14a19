package codecs_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/illuscio-dev/spanviews-go/codecs"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
)

type upperEncoder struct{ tag string }

func (encoder upperEncoder) Encode(value interface{}) (interface{}, error) {
	return encoder.tag, nil
}

type stringerValue struct{}

func (stringerValue) String() string { return "stringer" }

type echoDecoder struct{ tag string }

func (decoder echoDecoder) Decode(value string) (interface{}, error) {
	return decoder.tag + ":" + value, nil
}

func TestDateTimeRoundTrip(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewDefaultRegistry()

	original := time.Date(2024, time.January, 7, 10, 30, 15, 999, time.UTC)

	encoded, handled, err := registry.Encode(original)
	require.NoError(test, err)
	assert.True(handled)
	assert.Equal("Sun Jan 07 10:30:15 2024", encoded)

	decoder := registry.Decoder(encoded)
	require.NotNil(test, decoder)

	decoded, err := decoder.Decode(encoded.(string))
	require.NoError(test, err)
	assert.True(original.Truncate(time.Second).Equal(decoded.(time.Time)))
}

func TestDateTimeEncodesUTC(test *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	value := time.Date(2024, time.March, 1, 1, 0, 0, 0, zone)

	encoded, err := codecs.DateTimeCodec{}.Encode(&value)

	require.NoError(test, err)
	assert.Equal(test, "Thu Feb 29 23:00:00 2024", encoded)
}

func TestDateTimeFormatError(test *testing.T) {
	_, err := codecs.DateTimeCodec{}.Decode("Sun Jan 7 10:30:15 2024")

	assert.True(test, xerrors.Is(err, spanerrors.FormatError))
	assert.Equal(test, 400, spanerrors.StatusCode(err))
}

func TestDateRoundTrip(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewDefaultRegistry()

	date := codecs.Date{Year: 2024, Month: time.March, Day: 5}

	encoded, handled, err := registry.Encode(date)
	require.NoError(test, err)
	assert.True(handled)
	assert.Equal("2024/3/5", encoded)

	for _, text := range []string{"2024/3/5", "2024/03/05"} {
		decoded, err := registry.Decode(text)
		require.NoError(test, err)
		assert.Equal(date, decoded)
	}
}

func TestDateEncoderPickedOverDateTime(test *testing.T) {
	registry := codecs.NewDefaultRegistry()

	encoder := registry.Encoder(codecs.DateOf(time.Now()))

	assert.IsType(test, codecs.DateCodec{}, encoder)
	assert.IsType(test, codecs.DateTimeCodec{}, registry.Encoder(time.Now()))
}

func TestEncoderPointerValues(test *testing.T) {
	registry := codecs.NewDefaultRegistry()
	date := codecs.Date{Year: 2020, Month: time.December, Day: 31}

	encoded, handled, err := registry.Encode(&date)

	require.NoError(test, err)
	assert.True(test, handled)
	assert.Equal(test, "2020/12/31", encoded)
}

func TestEncoderOrderWithInterfaces(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewRegistry()

	stringerType := reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

	registry.RegisterEncoder(stringerType, upperEncoder{"stringer"})
	registry.RegisterEncoder(reflect.TypeOf(stringerValue{}), upperEncoder{"concrete"})

	// The interface entry was registered first, so it wins.
	encoded, _, _ := registry.Encode(stringerValue{})
	assert.Equal("stringer", encoded)

	// Replacing an entry keeps its position.
	registry.RegisterEncoder(stringerType, upperEncoder{"replaced"})
	encoded, _, _ = registry.Encode(stringerValue{})
	assert.Equal("replaced", encoded)

	_, handled, err := registry.Encode(42)
	assert.False(handled)
	assert.NoError(err)
	assert.Nil(registry.Encoder(nil))
}

func TestDecoderOnlyScalars(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewRegistry()
	require.NoError(test, registry.RegisterDecoder(`\d{3}`, echoDecoder{"digits"}))

	assert.NotNil(registry.Decoder(123))
	assert.NotNil(registry.Decoder(int64(456)))
	assert.NotNil(registry.Decoder("789"))
	assert.Nil(registry.Decoder(12.5))
	assert.Nil(registry.Decoder([]interface{}{"123"}))
	assert.Nil(registry.Decoder(map[string]interface{}{"a": "123"}))

	decoded, err := registry.Decode(int64(456))
	require.NoError(test, err)
	assert.Equal("digits:456", decoded)
}

func TestDecoderAnchored(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewRegistry()
	require.NoError(test, registry.RegisterDecoder(`\d{3}`, echoDecoder{"digits"}))

	assert.Nil(registry.Decoder("1234"))
	assert.Nil(registry.Decoder("x123"))

	unchanged, err := registry.Decode("x123")
	assert.NoError(err)
	assert.Equal("x123", unchanged)
}

func TestDecoderReplaceSamePattern(test *testing.T) {
	registry := codecs.NewRegistry()
	require.NoError(test, registry.RegisterDecoder(`a+`, echoDecoder{"first"}))
	require.NoError(test, registry.RegisterDecoder(`a+`, echoDecoder{"second"}))

	decoded, err := registry.Decode("aaa")

	require.NoError(test, err)
	assert.Equal(test, "second:aaa", decoded)
}

func TestDecoderBadPattern(test *testing.T) {
	err := codecs.NewRegistry().RegisterDecoder(`(`, echoDecoder{})
	assert.Error(test, err)
}

func TestEncodeOnlyDefaults(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewDefaultRegistry()

	id := uuid.NewV4()
	encoded, _, err := registry.Encode(id)
	assert.NoError(err)
	assert.Equal(id.String(), encoded)

	objectID := primitive.NewObjectID()
	encoded, _, err = registry.Encode(objectID)
	assert.NoError(err)
	assert.Equal(objectID.Hex(), encoded)

	encoded, _, err = registry.Encode(codecs.BinData("hi"))
	assert.NoError(err)
	assert.Equal("6869", encoded)

	// Plain strings are not turned into uuids by default.
	assert.Nil(registry.Decoder(id.String()))
}

func TestUUIDDecoder(test *testing.T) {
	registry := codecs.NewDefaultRegistry()
	codecs.RegisterUUIDDecoder(registry)

	id := uuid.NewV4()
	decoded, err := registry.Decode(id.String())

	require.NoError(test, err)
	assert.Equal(test, id, decoded)
}

func TestNilPointersNotEncoded(test *testing.T) {
	assert := assert.New(test)
	registry := codecs.NewDefaultRegistry()

	for _, value := range []interface{}{
		(*time.Time)(nil),
		(*codecs.Date)(nil),
		(*uuid.UUID)(nil),
		(*primitive.ObjectID)(nil),
		(*codecs.BinData)(nil),
	} {
		assert.Nil(registry.Encoder(value))

		var encoded interface{}
		var handled bool
		var err error
		assert.NotPanics(func() { encoded, handled, err = registry.Encode(value) })
		assert.False(handled)
		assert.NoError(err)
		assert.Equal(value, encoded)
	}
}

func TestBuiltinCodecsNilPointer(test *testing.T) {
	assert := assert.New(test)

	for _, encoder := range []struct {
		codec codecs.Encoder
		value interface{}
	}{
		{codecs.DateTimeCodec{}, (*time.Time)(nil)},
		{codecs.DateCodec{}, (*codecs.Date)(nil)},
		{codecs.UUIDCodec{}, (*uuid.UUID)(nil)},
		{codecs.ObjectIDEncoder{}, (*primitive.ObjectID)(nil)},
		{codecs.BinDataEncoder{}, (*codecs.BinData)(nil)},
	} {
		encoded, err := encoder.codec.Encode(encoder.value)
		assert.NoError(err)
		assert.Nil(encoded)
	}
}
