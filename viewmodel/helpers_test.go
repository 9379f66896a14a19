package viewmodel_test

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/illuscio-dev/spanviews-go/viewmodel"
	"github.com/illuscio-dev/spanviews-go/web"
	"github.com/stretchr/testify/require"
)

type Widget struct {
	ID    int `json:"id"`
	Name  string
	Price int
}

type Gadget struct {
	Serial string `bson:"serial_number"`
}

func widgetModel(version viewmodel.Version, name string) *viewmodel.EntityModel {
	return &viewmodel.EntityModel{
		Definition: viewmodel.Definition{
			Version: version,
			Name:    name,
			DBModel: reflect.TypeOf(Widget{}),
		},
		Fields: []string{"name", "price"},
	}
}

func createRequest(
	test *testing.T, target string, match map[string]string,
) *web.HTTPRequest {
	routes := web.NewRoutes()
	require.NoError(test, routes.Add("widgets", "/widgets"))
	require.NoError(test, routes.Add("widget", "/widgets/{id}"))
	require.NoError(test, routes.Add("widget_parts", "/widgets/{id}/parts"))

	request, err := web.NewHTTPRequest(httptest.NewRequest("GET", target, nil), routes, match)
	require.NoError(test, err)
	return request
}
