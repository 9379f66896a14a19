package viewmodel

import (
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"github.com/illuscio-dev/spanviews-go/web"
)

// EntityModel is the class of a single entity view model. Fields names the attributes
// copied from domain objects and expected in inputs.
type EntityModel struct {
	Definition
	Fields []string
}

// New returns an entity bound to request.
func (model *EntityModel) New(request web.Request) ViewModel {
	return &Entity{model: model, request: request}
}

// Entity is a request scoped instance of an EntityModel.
type Entity struct {
	model   *EntityModel
	request web.Request

	// Field values set by Deserialize. Every declared field is present.
	Values map[string]interface{}
	// Metadata value of the deserialized input as it was sent, nil when it had none.
	Metadata interface{}
}

// Model returns the class of the entity.
func (entity *Entity) Model() *EntityModel {
	return entity.model
}

// Request returns the request the entity is bound to.
func (entity *Entity) Request() web.Request {
	return entity.request
}

// Get returns a deserialized field value, nil when absent.
func (entity *Entity) Get(field string) interface{} {
	return entity.Values[field]
}

// Attr makes a deserialized entity usable as the domain object of another entity.
func (entity *Entity) Attr(name string) (interface{}, bool) {
	if entity == nil {
		return nil, false
	}
	if value, ok := entity.Values[name]; ok {
		return value, true
	}
	if metadata, ok := entity.Metadata.(map[string]interface{}); ok {
		if value, ok := metadata[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Serialize copies the declared fields of data into a wire object, adds the metadata
// block and the id field URLs.
func (entity *Entity) Serialize(data interface{}) (interface{}, error) {
	if isSerialized(data) {
		return data, nil
	}

	definition := &entity.model.Definition
	if !definition.Static && isEmpty(data) {
		return nil, spanerrors.NotFoundError.Newf(
			nil, "no %v found to serialize", definition.ModelType(),
		)
	}

	output := make(map[string]interface{}, len(entity.model.Fields)+1)
	for _, field := range entity.model.Fields {
		if value, ok := Attr(data, field); ok {
			output[field] = value
		}
	}

	if !definition.Static {
		creationDate, _ := Attr(data, "creation_date")
		modificationDate, _ := Attr(data, "modification_date")
		output["metadata"] = map[string]interface{}{
			"type":              definition.ModelType(),
			"version":           definition.Version.Wire(),
			"creation_date":     creationDate,
			"modification_date": modificationDate,
		}
	}

	urls, err := idFieldURLs(definition, entity.request, data)
	if err != nil {
		return nil, err
	}
	for field, value := range urls {
		output[field] = value
	}

	return output, nil
}

// Deserialize sets every declared field from data. Fields missing from data are set
// to nil.
func (entity *Entity) Deserialize(data map[string]interface{}) (ViewModel, error) {
	entity.Values = make(map[string]interface{}, len(entity.model.Fields))
	for _, field := range entity.model.Fields {
		entity.Values[field] = data[field]
	}

	if metadata, ok := data["metadata"]; ok {
		entity.Metadata = metadata
	}
	return entity, nil
}
