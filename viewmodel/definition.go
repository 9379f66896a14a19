package viewmodel

import (
	"reflect"

	"github.com/illuscio-dev/spanviews-go/web"
)

// IDField names the route an id field's URL is built from and the attributes that fill
// the route's variables.
type IDField struct {
	Route string
	Vars  []string
}

// Definition holds the class level attributes shared by every view model.
type Definition struct {
	Version Version
	// Name the model is registered under.
	Name string
	// Type written to metadata blocks. Defaults to Name.
	Type string
	// Domain type this model fronts. nil for collections and static models.
	DBModel reflect.Type
	// Static models have no metadata block and serialize empty data.
	Static bool
	// Output field name -> URL source.
	IDFields map[string]IDField
}

// Describe lets types embedding Definition satisfy Class.
func (definition *Definition) Describe() *Definition {
	return definition
}

// Key is the registry key of the definition.
func (definition *Definition) Key() Key {
	return Key{Version: definition.Version, Name: definition.Name}
}

// ModelType is the type written to metadata blocks.
func (definition *Definition) ModelType() string {
	if definition.Type != "" {
		return definition.Type
	}
	return definition.Name
}

// ViewModel is a request scoped view model instance.
type ViewModel interface {
	// Serialize converts a domain value to its wire form. Values that are already
	// serialized are returned as is.
	Serialize(data interface{}) (interface{}, error)
	// Deserialize populates the receiver from a decoded wire object and returns it.
	Deserialize(data map[string]interface{}) (ViewModel, error)
}

// Class is a registered view model type. New binds a fresh instance to a request.
type Class interface {
	Describe() *Definition
	New(request web.Request) ViewModel
}

func isSerialized(data interface{}) bool {
	mapping, ok := data.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = mapping["metadata"]
	return ok
}
