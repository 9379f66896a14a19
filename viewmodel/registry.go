/*
Versioned view models and the registry that resolves them.

A view model converts between a domain object and its wire representation. Classes are
registered under a Key of (version, name) and resolved either by name, when decoding input
that carries a metadata block, or by the runtime type of a domain object, when rendering
output:

	registry := viewmodel.NewRegistry(logger)
	registry.MustRegister(&viewmodel.EntityModel{
		Definition: viewmodel.Definition{
			Version: 1,
			Name:    "widget",
			DBModel: reflect.TypeOf(Widget{}),
			IDFields: map[string]viewmodel.IDField{
				"id": {Route: "widget", Vars: []string{"id"}},
			},
		},
		Fields: []string{"name", "price"},
	})

	class, err := registry.Model(1, &Widget{Name: "Bolt"})
*/
package viewmodel

import (
	"reflect"
	"sync"

	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Registry indexes view model classes by Key. It is safe for concurrent use.
type Registry struct {
	lock    sync.RWMutex
	classes map[Key]Class
	logger  *zap.Logger
}

// NewRegistry returns an empty registry. A nil logger discards registration logs.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		classes: make(map[Key]Class),
		logger:  logger,
	}
}

// Register indexes class under its key. Registering a key again replaces the previous
// class.
func (registry *Registry) Register(class Class) error {
	if class == nil || reflect.ValueOf(class).Kind() == reflect.Ptr &&
		reflect.ValueOf(class).IsNil() {
		return xerrors.New("view model class must not be nil")
	}

	definition := class.Describe()
	if definition == nil {
		return xerrors.Errorf("view model class %T has no definition", class)
	}
	if definition.Name == "" {
		return xerrors.Errorf("view model class %T has no name", class)
	}
	if definition.Version < NoVersion {
		return xerrors.Errorf(
			"view model %q has negative version %d", definition.Name, definition.Version,
		)
	}

	key := definition.Key()

	registry.lock.Lock()
	defer registry.lock.Unlock()

	if previous, ok := registry.classes[key]; ok {
		registry.logger.Warn(
			"replacing view model",
			zap.Stringer("key", key),
			zap.String("previous", reflect.TypeOf(previous).String()),
		)
	}
	registry.logger.Info(
		"registering view model",
		zap.String("name", key.Name),
		zap.Stringer("version", key.Version),
	)
	registry.classes[key] = class
	return nil
}

// MustRegister registers classes and panics on the first error.
func (registry *Registry) MustRegister(classes ...Class) {
	for _, class := range classes {
		if err := registry.Register(class); err != nil {
			panic(err)
		}
	}
}

// Keys returns the registered keys in order.
func (registry *Registry) Keys() []Key {
	registry.lock.RLock()
	keys := make([]Key, 0, len(registry.classes))
	for key := range registry.classes {
		keys = append(keys, key)
	}
	registry.lock.RUnlock()

	SortKeys(keys)
	return keys
}

// ModelByName returns the class registered under (version, name).
func (registry *Registry) ModelByName(name string, version Version) (Class, error) {
	registry.lock.RLock()
	class, ok := registry.classes[Key{Version: version, Name: name}]
	registry.lock.RUnlock()

	if !ok {
		return nil, spanerrors.ViewModelNotFoundError.Newf(
			nil, "no view model matching %s version %v found", name, version,
		)
	}
	return class, nil
}

func typeName(valueType reflect.Type) string {
	for valueType.Kind() == reflect.Ptr {
		valueType = valueType.Elem()
	}
	return valueType.Name()
}

// byDomainType indexes classes by the name of their domain type, then by version.
// Keys are visited in order and the first class for a pair wins.
func (registry *Registry) byDomainType() map[string]map[Version]Class {
	keys := registry.Keys()

	registry.lock.RLock()
	defer registry.lock.RUnlock()

	index := make(map[string]map[Version]Class)
	for _, key := range keys {
		class, ok := registry.classes[key]
		if !ok {
			continue
		}
		definition := class.Describe()
		if definition.DBModel == nil {
			continue
		}

		name := typeName(definition.DBModel)
		versions, ok := index[name]
		if !ok {
			versions = make(map[Version]Class)
			index[name] = versions
		}
		if _, taken := versions[key.Version]; !taken {
			versions[key.Version] = class
		}
	}
	return index
}

/*
Model returns the class serializing domainObject at version, looked up by the name of
the domain object's runtime type (pointers dereferenced).

ViewModelNotFoundError is returned when no class fronts that type at any version. When
the type is known but has no class for version, Model returns nil and no error.
*/
func (registry *Registry) Model(version Version, domainObject interface{}) (Class, error) {
	name := "<nil>"
	if domainObject != nil {
		name = typeName(reflect.TypeOf(domainObject))
	}

	versions, ok := registry.byDomainType()[name]
	if !ok || name == "" {
		return nil, spanerrors.ViewModelNotFoundError.Newf(
			nil, "no view model matching %T found", domainObject,
		)
	}
	return versions[version], nil
}
