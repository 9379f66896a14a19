/*
HTTP views serving view models.

A View holds one handler per HTTP method. Server matches a request path against its named
routes, dispatches to the View registered for the matched route and renders the result:

	server, err := views.NewServer(renderer, views.Options{Logger: logger})
	err = server.Handle("widget", "/widgets/{id}", &views.View{
		Get: binding.Chain(getWidget, provides),
		Put: binding.Chain(putWidget, requires, provides),
	})
	http.ListenAndServe(":8080", server)

Methods a View has no handler for answer 501 Not Implemented, methods outside GET, POST,
PUT and DELETE answer 405 Method Not Allowed.
*/
package views

import (
	"net/http"
	"strings"

	"github.com/illuscio-dev/spanviews-go/binding"
	"github.com/illuscio-dev/spanviews-go/spanerrors"
)

// View groups the handlers of one route.
type View struct {
	Get    binding.Handler
	Post   binding.Handler
	Put    binding.Handler
	Delete binding.Handler
}

// Allowed lists the methods the view has handlers for.
func (view *View) Allowed() []string {
	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		if handler, _ := view.lookup(method); handler != nil {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func (view *View) lookup(method string) (binding.Handler, bool) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return view.Get, true
	case http.MethodPost:
		return view.Post, true
	case http.MethodPut:
		return view.Put, true
	case http.MethodDelete:
		return view.Delete, true
	default:
		return nil, false
	}
}

// Handler returns the handler for method, or the error the request is answered with
// when there is none.
func (view *View) Handler(method string) (binding.Handler, error) {
	handler, known := view.lookup(method)
	if !known {
		return nil, spanerrors.InvalidMethodError.Newf(nil, "method %v is not allowed", method)
	}
	if handler == nil {
		return nil, spanerrors.NotImplementedError.Newf(
			nil, "method %v is not implemented", method,
		)
	}
	return handler, nil
}
