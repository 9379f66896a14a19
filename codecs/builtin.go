package codecs

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/illuscio-dev/spanviews-go/spanerrors"
	uuid "github.com/satori/go.uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
)

// DateTimeLayout is the wire format of date-times: English weekday and month
// abbreviations, zero padded day, 24 hour clock. Values are written in UTC.
const DateTimeLayout = "Mon Jan 02 15:04:05 2006"

// DateTimePattern matches strings written with DateTimeLayout.
const DateTimePattern = `(Sun|Mon|Tue|Wed|Thu|Fri|Sat) ` +
	`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) ` +
	`(0[1-9]|[12][0-9]|3[01]) ` +
	`([01][0-9]|2[0-3]):([0-5][0-9]):([0-5][0-9]) ` +
	`(\d\d\d\d)`

// DatePattern matches "YYYY/M/D" dates, month and day with or without zero padding.
const DatePattern = `(\d\d\d\d)/(0?[1-9]|1[012])/(0?[1-9]|[12][0-9]|3[01])`

// UUIDPattern matches canonical uuid strings.
const UUIDPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date part of t in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

func (date Date) String() string {
	return fmt.Sprintf("%d/%d/%d", date.Year, int(date.Month), date.Day)
}

// BinData holds raw binary blobs. It is written to the wire as a hex string.
type BinData []byte

// RegisterDefaults registers the built in codecs on registry: date-times, dates and the
// encode only conversions for uuids, mongo object ids and binary blobs.
func RegisterDefaults(registry *Registry) {
	registry.RegisterEncoder(reflect.TypeOf(time.Time{}), DateTimeCodec{})
	registry.RegisterEncoder(reflect.TypeOf(Date{}), DateCodec{})
	registry.RegisterEncoder(reflect.TypeOf(uuid.UUID{}), UUIDCodec{})
	registry.RegisterEncoder(reflect.TypeOf(primitive.ObjectID{}), ObjectIDEncoder{})
	registry.RegisterEncoder(reflect.TypeOf(BinData{}), BinDataEncoder{})

	// Built in patterns are known to compile.
	_ = registry.RegisterDecoder(DateTimePattern, DateTimeCodec{})
	_ = registry.RegisterDecoder(DatePattern, DateCodec{})
}

// RegisterUUIDDecoder makes canonical uuid strings decode to uuid.UUID values. It is not
// part of the defaults because it changes how plain string fields are read.
func RegisterUUIDDecoder(registry *Registry) {
	_ = registry.RegisterDecoder(UUIDPattern, UUIDCodec{})
}

// DateTimeCodec handles time.Time values.
type DateTimeCodec struct{}

func (DateTimeCodec) Encode(value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC().Format(DateTimeLayout), nil
	case *time.Time:
		if typed == nil {
			return nil, nil
		}
		return typed.UTC().Format(DateTimeLayout), nil
	}
	return nil, xerrors.Errorf("date-time codec cannot encode %T", value)
}

func (DateTimeCodec) Decode(value string) (interface{}, error) {
	parsed, err := time.Parse(DateTimeLayout, value)
	if err != nil {
		return nil, spanerrors.FormatError.New(
			"malformed date-time "+strconv.Quote(value), nil, err,
		)
	}
	return parsed, nil
}

// DateCodec handles Date values.
type DateCodec struct{}

func (DateCodec) Encode(value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case Date:
		return typed.String(), nil
	case *Date:
		if typed == nil {
			return nil, nil
		}
		return typed.String(), nil
	}
	return nil, xerrors.Errorf("date codec cannot encode %T", value)
}

func (DateCodec) Decode(value string) (interface{}, error) {
	parsed, err := time.Parse("2006/1/2", value)
	if err != nil {
		return nil, spanerrors.FormatError.New(
			"malformed date "+strconv.Quote(value), nil, err,
		)
	}
	return DateOf(parsed), nil
}

// UUIDCodec handles uuid.UUID values.
type UUIDCodec struct{}

func (UUIDCodec) Encode(value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case uuid.UUID:
		return typed.String(), nil
	case *uuid.UUID:
		if typed == nil {
			return nil, nil
		}
		return typed.String(), nil
	}
	return nil, xerrors.Errorf("uuid codec cannot encode %T", value)
}

func (UUIDCodec) Decode(value string) (interface{}, error) {
	parsed, err := uuid.FromString(value)
	if err != nil {
		return nil, spanerrors.FormatError.New(
			"malformed uuid "+strconv.Quote(value), nil, err,
		)
	}
	return parsed, nil
}

// ObjectIDEncoder writes mongo object ids as hex strings.
type ObjectIDEncoder struct{}

func (ObjectIDEncoder) Encode(value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case primitive.ObjectID:
		return typed.Hex(), nil
	case *primitive.ObjectID:
		if typed == nil {
			return nil, nil
		}
		return typed.Hex(), nil
	}
	return nil, xerrors.Errorf("object id encoder cannot encode %T", value)
}

// BinDataEncoder writes BinData as a hex string.
type BinDataEncoder struct{}

func (BinDataEncoder) Encode(value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case BinData:
		return hex.EncodeToString(typed), nil
	case *BinData:
		if typed == nil {
			return nil, nil
		}
		return hex.EncodeToString(*typed), nil
	}
	return nil, xerrors.Errorf("binary encoder cannot encode %T", value)
}
