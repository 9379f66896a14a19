package viewmodel

import (
	"net/url"
	"sort"

	"github.com/illuscio-dev/spanviews-go/web"
	"golang.org/x/xerrors"
)

// routeVars gathers the variables of an id field. Values from the request's match
// parameters are applied after values from source and win when both exist.
func routeVars(request web.Request, source interface{}, names []string) map[string]interface{} {
	vars := make(map[string]interface{})
	match := request.MatchDict()

	for _, name := range names {
		if name == "" {
			continue
		}
		if value, ok := Attr(source, name); ok {
			vars[name] = value
		}
		if value, ok := match[name]; ok {
			vars[name] = value
		}
	}
	return vars
}

// idFieldURLs builds the URL of every id field declared on definition. Fields are
// visited by name. A field called "id" carries the request's query parameters along.
func idFieldURLs(
	definition *Definition, request web.Request, source interface{},
) (map[string]interface{}, error) {
	output := make(map[string]interface{}, len(definition.IDFields))
	if len(definition.IDFields) == 0 {
		return output, nil
	}
	if request == nil {
		return nil, xerrors.Errorf(
			"view model %v has id fields but no request is bound", definition.Key(),
		)
	}

	names := make([]string, 0, len(definition.IDFields))
	for name := range definition.IDFields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := definition.IDFields[name]
		vars := routeVars(request, source, field.Vars)

		var query url.Values
		if name == "id" {
			if params := request.Params(); len(params) > 0 {
				query = params
			}
		}

		built, err := request.RouteURL(field.Route, vars, query)
		if err != nil {
			return nil, xerrors.Errorf("error building url for id field %q: %w", name, err)
		}
		output[name] = built
	}

	return output, nil
}
