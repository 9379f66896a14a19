package binding

import (
	"bytes"
	"strings"

	"github.com/illuscio-dev/spanviews-go/codecs"
	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/mimetype"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"github.com/illuscio-dev/spanviews-go/viewmodel"
	"github.com/illuscio-dev/spanviews-go/web"
	"golang.org/x/net/html/charset"
)

// Decoder hydrates decoded request bodies. Objects carrying a metadata block with a type
// become instances of the view model named there. The direct scalar members of every
// other object go through the codec registry.
type Decoder struct {
	models *viewmodel.Registry
	codecs *codecs.Registry
}

// NewDecoder returns a decoder. codecRegistry may be nil to skip scalar decoding.
func NewDecoder(models *viewmodel.Registry, codecRegistry *codecs.Registry) *Decoder {
	return &Decoder{models: models, codecs: codecRegistry}
}

// DecodeBody decodes the request body with engine and hydrates the result.
func (decoder *Decoder) DecodeBody(
	request web.Request, engine encoding.ContentEngine,
) (interface{}, error) {
	body, err := transcode(request.Body(), request.Charset())
	if err != nil {
		return nil, err
	}

	mimeType := mimetype.FromString(request.ContentType())
	if !engine.HandlesDecode(mimeType) {
		mimeType = mimetype.JSON
	}

	var tree interface{}
	err = engine.Decode(mimeType, &tree, bytes.NewReader(body))
	if err != nil {
		return nil, spanerrors.RequestValidationError.New(
			"request body could not be decoded as "+string(mimeType), nil, err,
		)
	}

	return decoder.Hydrate(request, tree)
}

// transcode converts body to utf-8.
func transcode(body []byte, name string) ([]byte, error) {
	if name == "" || strings.EqualFold(name, mimetype.DefaultCharset) ||
		strings.EqualFold(name, "utf8") {
		return body, nil
	}

	bodyEncoding, _ := charset.Lookup(name)
	if bodyEncoding == nil {
		return nil, spanerrors.RequestValidationError.Newf(nil, "unknown charset %q", name)
	}

	decoded, err := bodyEncoding.NewDecoder().Bytes(body)
	if err != nil {
		return nil, spanerrors.RequestValidationError.Newf(
			err, "request body is not valid %v", name,
		)
	}
	return decoded, nil
}

// Hydrate walks a decoded tree bottom-up, replacing objects the way DecodeBody does.
// Scalars outside objects are returned as they are.
func (decoder *Decoder) Hydrate(request web.Request, value interface{}) (interface{}, error) {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, child := range typed {
			hydrated, err := decoder.Hydrate(request, child)
			if err != nil {
				return nil, err
			}
			typed[key] = hydrated
		}
		return decoder.object(request, typed)
	case []interface{}:
		for index, child := range typed {
			hydrated, err := decoder.Hydrate(request, child)
			if err != nil {
				return nil, err
			}
			typed[index] = hydrated
		}
		return typed, nil
	default:
		return value, nil
	}
}

func (decoder *Decoder) object(
	request web.Request, pairs map[string]interface{},
) (interface{}, error) {
	if metadata, ok := pairs["metadata"].(map[string]interface{}); ok {
		if name, ok := metadata["type"].(string); ok {
			version, err := viewmodel.ParseVersion(metadata["version"])
			if err != nil {
				return nil, err
			}
			class, err := decoder.models.ModelByName(name, version)
			if err != nil {
				return nil, err
			}
			return class.New(request).Deserialize(pairs)
		}
	}

	if decoder.codecs == nil {
		return pairs, nil
	}
	for key, value := range pairs {
		decoded, err := decoder.codecs.Decode(value)
		if err != nil {
			return nil, err
		}
		pairs[key] = decoded
	}
	return pairs, nil
}
