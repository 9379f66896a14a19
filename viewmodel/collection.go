package viewmodel

import (
	"fmt"
	"reflect"

	"github.com/illuscio-dev/spanviews-go/paging"
	"github.com/illuscio-dev/spanviews-go/web"
)

// CollectionModel is the class of a collection view model.
type CollectionModel struct {
	Definition
}

// New returns a collection view bound to request.
func (model *CollectionModel) New(request web.Request) ViewModel {
	return &CollectionView{model: model, request: request}
}

// CollectionPayload is what collection handlers return: the items to serve and the
// values id field URLs are built from.
type CollectionPayload struct {
	// Slice or array of items.
	Items interface{}
	// Values for id field route variables.
	Params map[string]interface{}
}

// CollectionView is a request scoped instance of a CollectionModel.
type CollectionView struct {
	model   *CollectionModel
	request web.Request

	// Metadata value of the deserialized input as it was sent.
	Metadata interface{}
	Data     []interface{}
}

// Model returns the class of the collection.
func (view *CollectionView) Model() *CollectionModel {
	return view.model
}

/*
Serialize wraps the items of a CollectionPayload in a single page collection:

	{"metadata": {type, version, count, limit, ...}, "data": [items...], <id fields>...}

data must be a CollectionPayload, or a pointer to one, holding a slice or array. Anything
else is a programming error and panics.
*/
func (view *CollectionView) Serialize(data interface{}) (interface{}, error) {
	if isSerialized(data) {
		return data, nil
	}

	var payload CollectionPayload
	switch typed := data.(type) {
	case CollectionPayload:
		payload = typed
	case *CollectionPayload:
		payload = *typed
	default:
		panic(fmt.Sprintf(
			"collection %v must serialize a CollectionPayload, got %T",
			view.model.Key(),
			data,
		))
	}

	items := reflect.ValueOf(payload.Items)
	if items.Kind() != reflect.Slice && items.Kind() != reflect.Array {
		panic(fmt.Sprintf(
			"collection %v items must be a slice or array, got %T",
			view.model.Key(),
			payload.Items,
		))
	}

	collected := make([]interface{}, items.Len())
	for index := range collected {
		collected[index] = items.Index(index).Interface()
	}

	definition := &view.model.Definition
	metadata := paging.SinglePage(len(collected)).Metadata()
	metadata["type"] = definition.ModelType()
	metadata["version"] = definition.Version.Wire()

	output := map[string]interface{}{
		"metadata": metadata,
		"data":     collected,
	}

	var params interface{}
	if payload.Params != nil {
		params = payload.Params
	}
	urls, err := idFieldURLs(definition, view.request, params)
	if err != nil {
		return nil, err
	}
	for field, value := range urls {
		output[field] = value
	}

	return output, nil
}

// Deserialize stores the metadata block and data list of data as they are.
func (view *CollectionView) Deserialize(data map[string]interface{}) (ViewModel, error) {
	view.Metadata = data["metadata"]

	view.Data = []interface{}{}
	switch items := data["data"].(type) {
	case nil:
	case []interface{}:
		view.Data = items
	default:
		value := reflect.ValueOf(items)
		if value.Kind() == reflect.Slice || value.Kind() == reflect.Array {
			for index := 0; index < value.Len(); index++ {
				view.Data = append(view.Data, value.Index(index).Interface())
			}
		}
	}
	return view, nil
}
