/*
Request and response abstractions the view model layer talks to.

The serialization core never touches net/http directly: it reads bodies, match parameters
and query parameters through Request, builds URLs through Request.RouteURL and sets the
content type through Response. HTTPRequest adapts a *http.Request to these interfaces using
a Routes table for URL generation.
*/
package web

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/illuscio-dev/spanviews-go/mimetype"
	"golang.org/x/xerrors"
)

// DefaultContentType is the content type a fresh response starts with. Renderers only
// replace it when it is still this value.
const DefaultContentType = "text/html; charset=UTF-8"

// Request is the part of an inbound request the view model layer needs.
type Request interface {
	// Raw body bytes, empty when the request has no body.
	Body() []byte
	// Charset the body is written in.
	Charset() string
	// Content-Type of the body.
	ContentType() string
	// Variables captured by the matched route.
	MatchDict() map[string]string
	// Query parameters.
	Params() url.Values
	// Authenticated user, nil for anonymous requests.
	User() interface{}
	// Fully qualified URL of a named route.
	RouteURL(route string, vars map[string]interface{}, query url.Values) (string, error)
	// Response being built for this request.
	Response() Response
}

// Response is the part of an outbound response the renderer needs.
type Response interface {
	ContentType() string
	DefaultContentType() string
	SetContentType(contentType string)
}

// HTTPResponse is a Response backed by an http.Header.
type HTTPResponse struct {
	Header http.Header
}

// NewHTTPResponse returns a response holding DefaultContentType.
func NewHTTPResponse() *HTTPResponse {
	header := make(http.Header)
	header.Set("Content-Type", DefaultContentType)
	return &HTTPResponse{Header: header}
}

func (response *HTTPResponse) ContentType() string {
	return response.Header.Get("Content-Type")
}

func (response *HTTPResponse) DefaultContentType() string {
	return DefaultContentType
}

func (response *HTTPResponse) SetContentType(contentType string) {
	response.Header.Set("Content-Type", contentType)
}

// HTTPRequest adapts *http.Request to Request.
type HTTPRequest struct {
	request  *http.Request
	routes   *Routes
	match    map[string]string
	body     []byte
	baseURL  string
	user     interface{}
	response *HTTPResponse
}

// NewHTTPRequest reads the body of request and binds it to routes. match holds the
// variables captured when the route was matched and may be nil.
func NewHTTPRequest(
	request *http.Request, routes *Routes, match map[string]string,
) (*HTTPRequest, error) {
	var body []byte
	if request.Body != nil {
		buffer := new(bytes.Buffer)
		if _, err := buffer.ReadFrom(request.Body); err != nil {
			return nil, xerrors.Errorf("error reading request body: %w", err)
		}
		_ = request.Body.Close()
		body = buffer.Bytes()
	}

	if match == nil {
		match = make(map[string]string)
	}

	return &HTTPRequest{
		request:  request,
		routes:   routes,
		match:    match,
		body:     body,
		baseURL:  requestBaseURL(request),
		response: NewHTTPResponse(),
	}, nil
}

func requestBaseURL(request *http.Request) string {
	scheme := "http"
	if request.TLS != nil {
		scheme = "https"
	}
	if forwarded := request.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + request.Host
}

// SetBaseURL overrides the scheme and host generated URLs start with.
func (request *HTTPRequest) SetBaseURL(baseURL string) {
	request.baseURL = baseURL
}

// SetUser records the authenticated user.
func (request *HTTPRequest) SetUser(user interface{}) {
	request.user = user
}

// HTTP returns the wrapped request.
func (request *HTTPRequest) HTTP() *http.Request {
	return request.request
}

func (request *HTTPRequest) Body() []byte {
	return request.body
}

func (request *HTTPRequest) Charset() string {
	return mimetype.CharsetFromHeader(request.request.Header)
}

func (request *HTTPRequest) ContentType() string {
	return request.request.Header.Get("Content-Type")
}

func (request *HTTPRequest) MatchDict() map[string]string {
	return request.match
}

func (request *HTTPRequest) Params() url.Values {
	return request.request.URL.Query()
}

func (request *HTTPRequest) User() interface{} {
	return request.user
}

func (request *HTTPRequest) RouteURL(
	route string, vars map[string]interface{}, query url.Values,
) (string, error) {
	if request.routes == nil {
		return "", xerrors.New("no routes bound to request")
	}
	return request.routes.URL(request.baseURL, route, vars, query)
}

func (request *HTTPRequest) Response() Response {
	return request.response
}

// HTTPResponse returns the concrete response so callers can copy its headers.
func (request *HTTPRequest) HTTPResponse() *HTTPResponse {
	return request.response
}
