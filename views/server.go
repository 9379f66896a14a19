package views

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/illuscio-dev/spanviews-go/encoding"
	"github.com/illuscio-dev/spanviews-go/paging"
	"github.com/illuscio-dev/spanviews-go/render"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
	"github.com/illuscio-dev/spanviews-go/web"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Options configure a Server.
type Options struct {
	// BaseURL overrides the scheme and host of generated URLs.
	BaseURL string
	// Logger for request failures. nil discards them.
	Logger *zap.Logger
}

// Server is an http.Handler dispatching to views by route name.
type Server struct {
	routes   *web.Routes
	renderer *render.Renderer
	// compact engine for error data headers
	headerEngine encoding.ContentEngine
	baseURL      string
	logger       *zap.Logger

	lock  sync.RWMutex
	views map[string]*View
}

// NewServer returns a server rendering results with renderer.
func NewServer(renderer *render.Renderer, opts Options) (*Server, error) {
	headerEngine, err := encoding.NewContentEngine(encoding.Options{})
	if err != nil {
		return nil, xerrors.Errorf("error building header engine: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		routes:       web.NewRoutes(),
		renderer:     renderer,
		headerEngine: headerEngine,
		baseURL:      opts.BaseURL,
		logger:       logger,
		views:        make(map[string]*View),
	}, nil
}

// Routes returns the route table of the server.
func (server *Server) Routes() *web.Routes {
	return server.routes
}

// Handle registers pattern under name and serves it with view.
func (server *Server) Handle(name string, pattern string, view *View) error {
	if view == nil {
		return xerrors.Errorf("view for route %q must not be nil", name)
	}
	if err := server.routes.Add(name, pattern); err != nil {
		return err
	}

	server.lock.Lock()
	defer server.lock.Unlock()
	server.views[name] = view
	return nil
}

// Route registers a pattern that is only used to build URLs.
func (server *Server) Route(name string, pattern string) error {
	return server.routes.Add(name, pattern)
}

func (server *Server) ServeHTTP(writer http.ResponseWriter, httpRequest *http.Request) {
	name, vars, ok := server.routes.Match(httpRequest.URL.Path)

	server.lock.RLock()
	view := server.views[name]
	server.lock.RUnlock()

	if !ok || view == nil {
		server.writeError(
			writer,
			httpRequest,
			spanerrors.NotFoundError.Newf(nil, "no route matches %v", httpRequest.URL.Path),
		)
		return
	}

	request, err := web.NewHTTPRequest(httpRequest, server.routes, vars)
	if err != nil {
		server.writeError(
			writer,
			httpRequest,
			spanerrors.RequestValidationError.New("request body could not be read", nil, err),
		)
		return
	}
	if server.baseURL != "" {
		request.SetBaseURL(server.baseURL)
	}

	handler, err := view.Handler(httpRequest.Method)
	if err != nil {
		if xerrors.Is(err, spanerrors.InvalidMethodError) {
			writer.Header().Set("Allow", strings.Join(view.Allowed(), ", "))
		}
		server.writeError(writer, httpRequest, err)
		return
	}

	result, err := handler(request, nil)
	if err != nil {
		server.writeError(writer, httpRequest, err)
		return
	}

	body, err := server.renderer.Render(result, request)
	if err != nil {
		// unsupported results carry registry lookups as cause, not client facing errors
		var unsupported *render.UnsupportedTypeError
		if xerrors.As(err, &unsupported) {
			err = spanerrors.ServerError.New("internal server error", nil, err)
		}
		server.writeError(writer, httpRequest, err)
		return
	}

	header := writer.Header()
	for key, values := range request.HTTPResponse().Header {
		header[key] = values
	}
	writePagingHeaders(header, result)
	header.Set("Content-Length", strconv.Itoa(len(body)))

	writer.WriteHeader(http.StatusOK)
	if _, err := writer.Write(body); err != nil {
		server.logger.Debug("error writing response body", zap.Error(err))
	}
}

// writePagingHeaders mirrors the metadata of serialized collections into headers.
func writePagingHeaders(header http.Header, result interface{}) {
	serialized, ok := result.(map[string]interface{})
	if !ok {
		return
	}
	if _, isCollection := serialized["data"]; !isCollection {
		return
	}
	metadata, ok := serialized["metadata"].(map[string]interface{})
	if !ok {
		return
	}
	if page, ok := paging.FromMetadata(metadata); ok {
		page.ToHeaders(header)
	}
}

func (server *Server) writeError(
	writer http.ResponseWriter, httpRequest *http.Request, err error,
) {
	status := spanerrors.StatusCode(err)

	var spanError *spanerrors.Error
	if !xerrors.As(err, &spanError) {
		spanError = spanerrors.ServerError.New("internal server error", nil, err)
	}

	if headerErr := spanError.ToHeader(writer.Header(), server.headerEngine); headerErr != nil {
		server.logger.Warn("error writing error headers", zap.Error(headerErr))
	}

	fields := []zap.Field{
		zap.String("method", httpRequest.Method),
		zap.String("path", httpRequest.URL.Path),
		zap.Int("status", status),
		zap.Stringer("error_id", spanError.ID),
	}
	if status >= http.StatusInternalServerError {
		server.logger.Error(spanError.LogMessage(), fields...)
	} else {
		server.logger.Info(spanError.Error(), fields...)
	}

	writer.WriteHeader(status)
}
