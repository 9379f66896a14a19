package web

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/xerrors"
)

type segment struct {
	literal  string
	variable string
}

type route struct {
	name     string
	pattern  string
	segments []segment
}

// Routes is a table of named path patterns such as "/widgets/{id}". It matches inbound
// paths and generates URLs for view model id fields. Routes is safe for concurrent use.
type Routes struct {
	lock   sync.RWMutex
	byName map[string]*route
	order  []*route
}

// NewRoutes returns an empty route table.
func NewRoutes() *Routes {
	return &Routes{byName: make(map[string]*route)}
}

func parsePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, xerrors.Errorf("route pattern %q must start with '/'", pattern)
	}

	var segments []segment
	for _, part := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, xerrors.Errorf("route pattern %q has an empty variable", pattern)
			}
			segments = append(segments, segment{variable: name})
			continue
		}
		segments = append(segments, segment{literal: part})
	}
	return segments, nil
}

// Add registers pattern under name. Adding a name again replaces its pattern; match
// order stays the order names were first added in.
func (routes *Routes) Add(name string, pattern string) error {
	segments, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	routes.lock.Lock()
	defer routes.lock.Unlock()

	if existing, ok := routes.byName[name]; ok {
		existing.pattern = pattern
		existing.segments = segments
		return nil
	}

	added := &route{name: name, pattern: pattern, segments: segments}
	routes.byName[name] = added
	routes.order = append(routes.order, added)
	return nil
}

// Match returns the first route matching path and the variables it captured.
func (routes *Routes) Match(path string) (name string, vars map[string]string, ok bool) {
	var parts []string
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	routes.lock.RLock()
	defer routes.lock.RUnlock()

	for _, candidate := range routes.order {
		if vars, ok := candidate.match(parts); ok {
			return candidate.name, vars, true
		}
	}
	return "", nil, false
}

func (candidate *route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(candidate.segments) {
		return nil, false
	}

	vars := make(map[string]string)
	for index, seg := range candidate.segments {
		if seg.variable == "" {
			if seg.literal != parts[index] {
				return nil, false
			}
			continue
		}
		value, err := url.PathUnescape(parts[index])
		if err != nil {
			return nil, false
		}
		vars[seg.variable] = value
	}
	return vars, true
}

// URL builds baseURL + the path of the named route with vars substituted. A non empty
// query is appended as the query string. Vars the pattern does not use are ignored.
func (routes *Routes) URL(
	baseURL string, name string, vars map[string]interface{}, query url.Values,
) (string, error) {
	routes.lock.RLock()
	target, ok := routes.byName[name]
	routes.lock.RUnlock()

	if !ok {
		return "", xerrors.Errorf("no route named %q", name)
	}

	var builder strings.Builder
	builder.WriteString(strings.TrimRight(baseURL, "/"))

	for _, seg := range target.segments {
		builder.WriteByte('/')
		if seg.variable == "" {
			builder.WriteString(seg.literal)
			continue
		}
		value, ok := vars[seg.variable]
		if !ok || value == nil {
			return "", xerrors.Errorf(
				"route %q needs variable %q", name, seg.variable,
			)
		}
		builder.WriteString(url.PathEscape(fmt.Sprint(value)))
	}
	if len(target.segments) == 0 {
		builder.WriteByte('/')
	}

	if len(query) > 0 {
		builder.WriteByte('?')
		builder.WriteString(query.Encode())
	}

	return builder.String(), nil
}
