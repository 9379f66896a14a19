package main

import (
	"net/http"
	"os"
	"reflect"

	"github.com/illuscio-dev/spanviews-go/binding"
	"github.com/illuscio-dev/spanviews-go/codecs"
	"github.com/illuscio-dev/spanviews-go/config"
	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/observability"
	"github.com/illuscio-dev/spanviews-go/paging"
	"github.com/illuscio-dev/spanviews-go/render"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"github.com/illuscio-dev/spanviews-go/viewmodel"
	"github.com/illuscio-dev/spanviews-go/views"
	"github.com/illuscio-dev/spanviews-go/web"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

var (
	widgetKey  = viewmodel.NewKey(1, "widget")
	widgetsKey = viewmodel.NewKey(1, "widgets")
)

// run is the main entry point after CLI parsing.
func run(opts Options) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	zap.L().Info("spanviews-demo started", zap.String("app", cfg.AppName))
	zap.L().Info("effective configuration", zap.Any("config", cfg))

	server, err := newServer(cfg, logger, newWidgetStore())
	if err != nil {
		zap.L().Error("failed to build server", zap.Error(err))
		return 1
	}

	zap.L().Info("listening", zap.String("address", cfg.Listen))
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func registerModels(logger *zap.Logger) *viewmodel.Registry {
	models := viewmodel.NewRegistry(logger)
	models.MustRegister(
		&viewmodel.EntityModel{
			Definition: viewmodel.Definition{
				Version: widgetKey.Version,
				Name:    widgetKey.Name,
				DBModel: reflect.TypeOf(Widget{}),
				IDFields: map[string]viewmodel.IDField{
					"id": {Route: "widget", Vars: []string{"id"}},
				},
			},
			Fields: []string{"name", "price", "parent"},
		},
		&viewmodel.CollectionModel{
			Definition: viewmodel.Definition{
				Version: widgetsKey.Version,
				Name:    widgetsKey.Name,
				IDFields: map[string]viewmodel.IDField{
					"self": {Route: "widgets"},
				},
			},
		},
	)
	return models
}

// newServer wires the widget views onto a views.Server configured by cfg.
func newServer(cfg *config.Config, logger *zap.Logger, store *widgetStore) (*views.Server, error) {
	engine, err := encoding.NewContentEngine(encoding.Options{Indent: int8(cfg.Render.Indent)})
	if err != nil {
		return nil, xerrors.Errorf("error building content engine: %w", err)
	}

	models := registerModels(logger.Named("viewmodels"))
	codecRegistry := codecs.NewDefaultRegistry()
	// parent references arrive as uuid strings
	codecs.RegisterUUIDDecoder(codecRegistry)

	renderer := render.NewRenderer(
		models,
		codecRegistry,
		engine,
		render.Options{DefaultMimeType: cfg.Render.MimeType()},
	)

	server, err := views.NewServer(renderer, views.Options{
		BaseURL: cfg.BaseURL,
		Logger:  logger.Named("views"),
	})
	if err != nil {
		return nil, err
	}

	requires, err := binding.Requires(models, codecRegistry, engine, widgetKey)
	if err != nil {
		return nil, err
	}
	provides, err := binding.Provides(models, widgetKey)
	if err != nil {
		return nil, err
	}
	providesList, err := binding.Provides(models, widgetsKey)
	if err != nil {
		return nil, err
	}

	handlers := &widgetHandlers{store: store}

	err = server.Handle("widgets", "/widgets", &views.View{
		Get:  binding.Chain(handlers.list, providesList),
		Post: binding.Chain(handlers.create, requires, provides),
	})
	if err != nil {
		return nil, err
	}

	err = server.Handle("widget", "/widgets/{id}", &views.View{
		Get:    binding.Chain(handlers.get, provides),
		Put:    binding.Chain(handlers.update, requires, provides),
		Delete: binding.Chain(handlers.delete, provides),
	})
	if err != nil {
		return nil, err
	}

	return server, nil
}

type widgetHandlers struct {
	store *widgetStore
}

func (handlers *widgetHandlers) list(request web.Request, _ interface{}) (interface{}, error) {
	pageRequest, err := paging.RequestFromParams(request.Params(), 0)
	if err != nil {
		return nil, spanerrors.RequestValidationError.New(err.Error(), nil, err)
	}
	return viewmodel.CollectionPayload{
		Items: handlers.store.List(pageRequest.Offset, pageRequest.Limit),
	}, nil
}

func (handlers *widgetHandlers) create(_ web.Request, input interface{}) (interface{}, error) {
	fields, err := widgetInput(input)
	if err != nil {
		return nil, err
	}
	return handlers.store.Create(fields), nil
}

func (handlers *widgetHandlers) get(request web.Request, _ interface{}) (interface{}, error) {
	id, err := widgetID(request)
	if err != nil {
		return nil, err
	}
	return found(handlers.store.Get(id), id)
}

func (handlers *widgetHandlers) update(request web.Request, input interface{}) (interface{}, error) {
	id, err := widgetID(request)
	if err != nil {
		return nil, err
	}
	fields, err := widgetInput(input)
	if err != nil {
		return nil, err
	}
	return found(handlers.store.Update(id, fields), id)
}

func (handlers *widgetHandlers) delete(request web.Request, _ interface{}) (interface{}, error) {
	id, err := widgetID(request)
	if err != nil {
		return nil, err
	}
	return found(handlers.store.Delete(id), id)
}

func found(widget *Widget, id uuid.UUID) (interface{}, error) {
	if widget == nil {
		return nil, spanerrors.NotFoundError.Newf(nil, "no widget with id %v", id)
	}
	return widget, nil
}

func widgetID(request web.Request) (uuid.UUID, error) {
	raw := request.MatchDict()["id"]
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, spanerrors.NotFoundError.Newf(err, "no widget with id %q", raw)
	}
	return id, nil
}

// widgetFields are the writable fields of a widget.
type widgetFields struct {
	Name   string
	Price  float64
	Parent *uuid.UUID
}

// widgetInput reads the fields of a deserialized widget body.
func widgetInput(input interface{}) (widgetFields, error) {
	var fields widgetFields

	entity, ok := input.(*viewmodel.Entity)
	if !ok || entity == nil {
		return fields, spanerrors.RequestValidationError.New("widget body required", nil, nil)
	}

	name, ok := entity.Get("name").(string)
	if !ok || name == "" {
		return fields, spanerrors.RequestValidationError.New(
			"widget name must be a non empty string",
			map[string]interface{}{"field": "name"},
			nil,
		)
	}
	fields.Name = name

	switch typed := entity.Get("price").(type) {
	case nil:
	case int64:
		fields.Price = float64(typed)
	case uint64:
		fields.Price = float64(typed)
	case float64:
		fields.Price = typed
	default:
		return fields, spanerrors.RequestValidationError.New(
			"widget price must be a number",
			map[string]interface{}{"field": "price"},
			nil,
		)
	}

	switch typed := entity.Get("parent").(type) {
	case nil:
	case uuid.UUID:
		fields.Parent = &typed
	default:
		return fields, spanerrors.RequestValidationError.New(
			"widget parent must be a widget id",
			map[string]interface{}{"field": "parent"},
			nil,
		)
	}

	return fields, nil
}
