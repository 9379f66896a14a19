package web_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/illuscio-dev/spanviews-go/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRoutes(test *testing.T) *web.Routes {
	routes := web.NewRoutes()
	require.NoError(test, routes.Add("widgets", "/widgets"))
	require.NoError(test, routes.Add("widget", "/widgets/{id}"))
	require.NoError(test, routes.Add("part", "/widgets/{id}/parts/{part}"))
	require.NoError(test, routes.Add("root", "/"))
	return routes
}

func TestRoutesMatch(test *testing.T) {
	assert := assert.New(test)
	routes := createRoutes(test)

	name, vars, ok := routes.Match("/widgets/7/parts/nut%20a")
	assert.True(ok)
	assert.Equal("part", name)
	assert.Equal(map[string]string{"id": "7", "part": "nut a"}, vars)

	name, vars, ok = routes.Match("/widgets/")
	assert.True(ok)
	assert.Equal("widgets", name)
	assert.Empty(vars)

	name, _, ok = routes.Match("/")
	assert.True(ok)
	assert.Equal("root", name)

	_, _, ok = routes.Match("/gadgets/7")
	assert.False(ok)
}

func TestRoutesURL(test *testing.T) {
	assert := assert.New(test)
	routes := createRoutes(test)

	built, err := routes.URL("http://api.test/", "widget", map[string]interface{}{"id": 7}, nil)
	assert.NoError(err)
	assert.Equal("http://api.test/widgets/7", built)

	built, err = routes.URL(
		"http://api.test",
		"widgets",
		nil,
		url.Values{"limit": {"10"}},
	)
	assert.NoError(err)
	assert.Equal("http://api.test/widgets?limit=10", built)

	built, err = routes.URL("http://api.test", "root", nil, nil)
	assert.NoError(err)
	assert.Equal("http://api.test/", built)

	_, err = routes.URL("http://api.test", "widget", map[string]interface{}{}, nil)
	assert.EqualError(err, `route "widget" needs variable "id"`)

	_, err = routes.URL("http://api.test", "nope", nil, nil)
	assert.EqualError(err, `no route named "nope"`)
}

func TestRoutesBadPattern(test *testing.T) {
	routes := web.NewRoutes()
	assert.Error(test, routes.Add("bad", "widgets"))
	assert.Error(test, routes.Add("bad", "/widgets/{}"))
}

func TestRoutesReplace(test *testing.T) {
	routes := createRoutes(test)
	require.NoError(test, routes.Add("widget", "/v2/widgets/{id}"))

	built, err := routes.URL("http://api.test", "widget", map[string]interface{}{"id": "a"}, nil)

	assert.NoError(test, err)
	assert.Equal(test, "http://api.test/v2/widgets/a", built)
}

func TestHTTPRequestAdapter(test *testing.T) {
	assert := assert.New(test)

	httpRequest := httptest.NewRequest(
		"POST", "http://api.test/widgets/7?sort=name", strings.NewReader(`{"name":"Nut"}`),
	)
	httpRequest.Header.Set("Content-Type", "application/json; charset=latin1")

	request, err := web.NewHTTPRequest(
		httpRequest, createRoutes(test), map[string]string{"id": "7"},
	)
	require.NoError(test, err)

	assert.Equal(`{"name":"Nut"}`, string(request.Body()))
	assert.Equal("latin1", request.Charset())
	assert.Equal("application/json; charset=latin1", request.ContentType())
	assert.Equal(map[string]string{"id": "7"}, request.MatchDict())
	assert.Equal("name", request.Params().Get("sort"))
	assert.Nil(request.User())

	request.SetUser("harry")
	assert.Equal("harry", request.User())

	built, err := request.RouteURL("widget", map[string]interface{}{"id": 8}, nil)
	assert.NoError(err)
	assert.Equal("http://api.test/widgets/8", built)

	request.SetBaseURL("https://public.test")
	built, err = request.RouteURL("widget", map[string]interface{}{"id": 8}, nil)
	assert.NoError(err)
	assert.Equal("https://public.test/widgets/8", built)

	response := request.Response()
	assert.Equal(response.DefaultContentType(), response.ContentType())
	response.SetContentType("application/yaml")
	assert.Equal("application/yaml", request.HTTPResponse().Header.Get("Content-Type"))
}
