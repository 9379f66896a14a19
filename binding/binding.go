/*
Middleware binding view models to request handlers.

Requires decodes the request body into an input view model before the handler runs and
Provides serializes the handler's result through an output view model after it returns.
Both resolve their view models when they are built, so a misconfigured key fails at
startup instead of on the first request:

	requires, err := binding.Requires(models, codecRegistry, engine, viewmodel.NewKey(1, "widget"))
	provides, err := binding.Provides(models, viewmodel.NewKey(1, "widget"))

	handler := binding.Chain(createWidget, requires, provides)
*/
package binding

import (
	"github.com/illuscio-dev/spanviews-go/codecs"
	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/viewmodel"
	"github.com/illuscio-dev/spanviews-go/web"
	"golang.org/x/xerrors"
)

// Handler serves a request. input holds whatever the Requires middleware bound, nil
// when there is none. The result is handed to the renderer.
type Handler func(request web.Request, input interface{}) (interface{}, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain wraps handler with middlewares. The first middleware is the outermost one.
func Chain(handler Handler, middlewares ...Middleware) Handler {
	for index := len(middlewares) - 1; index >= 0; index-- {
		handler = middlewares[index](handler)
	}
	return handler
}

// firstClass resolves every key and returns the class of the lowest one.
func firstClass(models *viewmodel.Registry, keys []viewmodel.Key) (viewmodel.Class, error) {
	if len(keys) == 0 {
		return nil, xerrors.New("at least one view model key is required")
	}

	sorted := make([]viewmodel.Key, len(keys))
	copy(sorted, keys)
	viewmodel.SortKeys(sorted)

	var first viewmodel.Class
	for index, key := range sorted {
		class, err := models.ModelByName(key.Name, key.Version)
		if err != nil {
			return nil, err
		}
		if index == 0 {
			first = class
		}
	}
	return first, nil
}

/*
Requires returns middleware binding the request body to an input view model.

When the request has a body it is decoded with engine, in the mimetype of the request
(JSON when unknown), and every object in it is run through a Decoder. If there was no body,
or the body decoded to a plain object, the lowest of keys is instantiated for the request
and, when there was data, deserialized from the body. Other results, such as lists or
objects hydrated through their own metadata block, are passed on as they are.
*/
func Requires(
	models *viewmodel.Registry,
	codecRegistry *codecs.Registry,
	engine encoding.ContentEngine,
	keys ...viewmodel.Key,
) (Middleware, error) {
	class, err := firstClass(models, keys)
	if err != nil {
		return nil, err
	}

	decoder := NewDecoder(models, codecRegistry)

	middleware := func(next Handler) Handler {
		return func(request web.Request, _ interface{}) (interface{}, error) {
			var data interface{}
			if len(request.Body()) > 0 {
				decoded, err := decoder.DecodeBody(request, engine)
				if err != nil {
					return nil, err
				}
				data = decoded
			}

			mapping, isMap := data.(map[string]interface{})
			if data == nil || isMap {
				model := class.New(request)
				if len(mapping) > 0 {
					deserialized, err := model.Deserialize(mapping)
					if err != nil {
						return nil, err
					}
					model = deserialized
				}
				data = model
			}

			return next(request, data)
		}
	}
	return middleware, nil
}

// Provides returns middleware serializing the handler's result through the lowest of
// keys.
func Provides(models *viewmodel.Registry, keys ...viewmodel.Key) (Middleware, error) {
	class, err := firstClass(models, keys)
	if err != nil {
		return nil, err
	}

	middleware := func(next Handler) Handler {
		return func(request web.Request, input interface{}) (interface{}, error) {
			result, err := next(request, input)
			if err != nil {
				return nil, err
			}
			return class.New(request).Serialize(result)
		}
	}
	return middleware, nil
}
