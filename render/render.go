/*
Rendering of handler results to response bodies.

Renderer walks a result tree, replacing every value the wire formats cannot carry: scalar
types through the codec registry and domain objects through the view model registry. The
resolved tree is then encoded with the content engine in the response's mimetype.
*/
package render

import (
	"bytes"
	"reflect"

	"github.com/illuscio-dev/spanviews-go/codecs"
	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/mimetype"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"github.com/illuscio-dev/spanviews-go/viewmodel"
	"github.com/illuscio-dev/spanviews-go/web"
	"golang.org/x/xerrors"
)

// UnsupportedTypeError is returned for values that no codec or view model can convert.
type UnsupportedTypeError struct {
	Type reflect.Type
	// Why no view model could take the value.
	Cause error
}

func (err *UnsupportedTypeError) Error() string {
	return "render: value of type " + err.Type.String() + " is not serializable"
}

func (err *UnsupportedTypeError) Unwrap() error {
	return err.Cause
}

// Options configure a Renderer.
type Options struct {
	// Content type set on responses still carrying their default. JSON when empty.
	DefaultMimeType mimetype.MimeType
}

// Renderer turns handler results into response bodies.
type Renderer struct {
	models          *viewmodel.Registry
	codecs          *codecs.Registry
	engine          encoding.ContentEngine
	defaultMimeType mimetype.MimeType
}

// NewRenderer returns a renderer. models and codecRegistry may be nil.
func NewRenderer(
	models *viewmodel.Registry,
	codecRegistry *codecs.Registry,
	engine encoding.ContentEngine,
	opts Options,
) *Renderer {
	defaultMimeType := opts.DefaultMimeType
	if defaultMimeType == mimetype.UNKNOWN {
		defaultMimeType = mimetype.JSON
	}
	return &Renderer{
		models:          models,
		codecs:          codecRegistry,
		engine:          engine,
		defaultMimeType: defaultMimeType,
	}
}

// responseMimeType sets the default content type on responses that still carry the
// framework default, and returns the mimetype the body is encoded with.
func (renderer *Renderer) responseMimeType(request web.Request) mimetype.MimeType {
	if request == nil || request.Response() == nil {
		return renderer.defaultMimeType
	}

	response := request.Response()
	if response.ContentType() == response.DefaultContentType() {
		response.SetContentType(string(renderer.defaultMimeType))
		return renderer.defaultMimeType
	}

	mimeType := mimetype.FromString(response.ContentType())
	if renderer.engine.HandlesEncode(mimeType) {
		return mimeType
	}
	return mimetype.JSON
}

// Render resolves value and encodes it for request. request may be nil.
func (renderer *Renderer) Render(value interface{}, request web.Request) ([]byte, error) {
	mimeType := renderer.responseMimeType(request)

	resolved, err := renderer.Resolve(value, request, VersionOf(value))
	if err != nil {
		return nil, err
	}

	buffer := new(bytes.Buffer)
	if err := renderer.engine.Encode(mimeType, resolved, buffer); err != nil {
		return nil, xerrors.Errorf("error encoding response: %w", err)
	}
	return buffer.Bytes(), nil
}

// VersionOf returns metadata.version of an already serialized value, NoVersion when it
// has none.
func VersionOf(value interface{}) viewmodel.Version {
	mapping, ok := value.(map[string]interface{})
	if !ok {
		return viewmodel.NoVersion
	}
	metadata, ok := mapping["metadata"].(map[string]interface{})
	if !ok {
		return viewmodel.NoVersion
	}
	version, err := viewmodel.ParseVersion(metadata["version"])
	if err != nil {
		return viewmodel.NoVersion
	}
	return version
}

/*
Resolve returns value as a tree of maps, slices and wire scalars.

Scalars the wire formats carry natively pass through and maps and slices are resolved
member by member. Any other value is converted by the first matching codec, or else
serialized by the view model registered for its type at version and resolved again.
Values neither can take fail with *UnsupportedTypeError.
*/
func (renderer *Renderer) Resolve(
	value interface{}, request web.Request, version viewmodel.Version,
) (interface{}, error) {
	switch typed := value.(type) {
	case nil, bool, string, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return value, nil
	case map[string]interface{}:
		resolved := make(map[string]interface{}, len(typed))
		for key, member := range typed {
			resolvedMember, err := renderer.Resolve(member, request, version)
			if err != nil {
				return nil, err
			}
			resolved[key] = resolvedMember
		}
		return resolved, nil
	case []interface{}:
		resolved := make([]interface{}, len(typed))
		for index, member := range typed {
			resolvedMember, err := renderer.Resolve(member, request, version)
			if err != nil {
				return nil, err
			}
			resolved[index] = resolvedMember
		}
		return resolved, nil
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Ptr && reflected.IsNil() {
		return nil, nil
	}

	if renderer.codecs != nil {
		encoded, handled, err := renderer.codecs.Encode(value)
		if err != nil {
			return nil, xerrors.Errorf("error encoding %T: %w", value, err)
		}
		if handled {
			return renderer.Resolve(encoded, request, version)
		}
	}

	switch reflected.Kind() {
	case reflect.Map:
		if reflected.Type().Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Type: reflected.Type()}
		}
		converted := make(map[string]interface{}, reflected.Len())
		iter := reflected.MapRange()
		for iter.Next() {
			converted[iter.Key().String()] = iter.Value().Interface()
		}
		return renderer.Resolve(converted, request, version)
	case reflect.Slice, reflect.Array:
		converted := make([]interface{}, reflected.Len())
		for index := range converted {
			converted[index] = reflected.Index(index).Interface()
		}
		return renderer.Resolve(converted, request, version)
	case reflect.String:
		return reflected.String(), nil
	case reflect.Bool:
		return reflected.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflected.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflected.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return reflected.Float(), nil
	case reflect.Ptr:
		if reflected.Elem().Kind() != reflect.Struct {
			return renderer.Resolve(reflected.Elem().Interface(), request, version)
		}
	}

	return renderer.viaViewModel(value, request, version)
}

func (renderer *Renderer) viaViewModel(
	value interface{}, request web.Request, version viewmodel.Version,
) (interface{}, error) {
	valueType := reflect.TypeOf(value)
	if renderer.models == nil {
		return nil, &UnsupportedTypeError{Type: valueType}
	}

	class, err := renderer.models.Model(version, value)
	if xerrors.Is(err, spanerrors.ViewModelNotFoundError) {
		return nil, &UnsupportedTypeError{Type: valueType, Cause: err}
	}
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, &UnsupportedTypeError{
			Type: valueType,
			Cause: xerrors.Errorf(
				"%v has view models, none at version %v", valueType, version,
			),
		}
	}

	serialized, err := class.New(request).Serialize(value)
	if err != nil {
		return nil, err
	}
	return renderer.Resolve(serialized, request, version)
}
