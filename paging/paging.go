/*
Pagination metadata for collection view models.

Collections are served as a single page: SinglePage describes n items as one page holding
all of them. The same metadata can be mirrored into response headers with ToHeaders and read
back with FromHeaders.
*/
package paging

import (
	"strconv"

	"golang.org/x/xerrors"
)

type valueSetter interface {
	Set(key string, value string)
}

type valueFetcher interface {
	Get(key string) string
}

// Request holds paging parameters sent by a client.
type Request struct {
	// How far to offset the page.
	Offset int
	// Maximum item count to return.
	Limit int
}

// ToParams dumps paging information to request URL params.
func (request *Request) ToParams(params valueSetter) {
	params.Set("paging-offset", strconv.Itoa(request.Offset))
	// Only send back limit if it is valid.
	if request.Limit > 0 {
		params.Set("paging-limit", strconv.Itoa(request.Limit))
	}
}

// RequestFromParams reads paging parameters from request URL params.
func RequestFromParams(params valueFetcher, defaultLimit int) (*Request, error) {
	var err error
	request := &Request{}

	request.Offset, err = getInt(params, "paging-offset", 0)
	if err != nil {
		return nil, err
	}

	request.Limit, err = getInt(params, "paging-limit", defaultLimit)
	if err != nil {
		return nil, err
	}

	return request, nil
}

// Page describes one page of a collection. Index fields hold -1 and link fields hold ""
// when they have no value; both are written as null.
type Page struct {
	Count        int
	Limit        int
	PerPage      int
	NumPages     int
	NextPage     string
	PreviousPage string
	StartIndex   int
	EndIndex     int
}

// SinglePage describes count items served as one page.
func SinglePage(count int) *Page {
	page := &Page{
		Count:      count,
		Limit:      count,
		PerPage:    count,
		NumPages:   1,
		StartIndex: -1,
		EndIndex:   -1,
	}
	if count > 0 {
		page.StartIndex = 0
		page.EndIndex = count - 1
	}
	return page
}

func nullableIndex(index int) interface{} {
	if index < 0 {
		return nil
	}
	return index
}

func nullableLink(link string) interface{} {
	if link == "" {
		return nil
	}
	return link
}

// Metadata returns the paging keys of a collection metadata block.
func (page *Page) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"count":         page.Count,
		"limit":         page.Limit,
		"per_page":      page.PerPage,
		"num_pages":     page.NumPages,
		"next_page":     nullableLink(page.NextPage),
		"previous_page": nullableLink(page.PreviousPage),
		"start_index":   nullableIndex(page.StartIndex),
		"end_index":     nullableIndex(page.EndIndex),
	}
}

// FromMetadata reads the paging keys back out of a collection metadata block. ok is
// false when the block carries no count.
func FromMetadata(metadata map[string]interface{}) (page *Page, ok bool) {
	count, ok := metadataInt(metadata["count"])
	if !ok {
		return nil, false
	}

	page = &Page{Count: count, StartIndex: -1, EndIndex: -1}
	page.Limit, _ = metadataInt(metadata["limit"])
	page.PerPage, _ = metadataInt(metadata["per_page"])
	page.NumPages, _ = metadataInt(metadata["num_pages"])
	page.NextPage, _ = metadata["next_page"].(string)
	page.PreviousPage, _ = metadata["previous_page"].(string)

	if index, ok := metadataInt(metadata["start_index"]); ok {
		page.StartIndex = index
	}
	if index, ok := metadataInt(metadata["end_index"]); ok {
		page.EndIndex = index
	}

	return page, true
}

func metadataInt(value interface{}) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case uint64:
		return int(typed), true
	case float64:
		if typed != float64(int(typed)) {
			return 0, false
		}
		return int(typed), true
	default:
		return 0, false
	}
}

// ToHeaders writes the page to response headers. Fields without a value are left out.
func (page *Page) ToHeaders(headers valueSetter) {
	offset := 0
	if page.StartIndex > 0 {
		offset = page.StartIndex
	}
	request := &Request{Offset: offset, Limit: page.Limit}
	request.ToParams(headers)

	headers.Set("paging-total-items", strconv.Itoa(page.Count))
	headers.Set("paging-total-pages", strconv.Itoa(page.NumPages))
	headers.Set("paging-current-page", "1")

	if page.PreviousPage != "" {
		headers.Set("paging-previous", page.PreviousPage)
	}
	if page.NextPage != "" {
		headers.Set("paging-next", page.NextPage)
	}
}

// FromHeaders reads a page written by ToHeaders.
func FromHeaders(headers valueFetcher) (*Page, error) {
	request, err := RequestFromParams(headers, 0)
	if err != nil {
		return nil, err
	}

	page := &Page{Limit: request.Limit, PerPage: request.Limit, StartIndex: -1, EndIndex: -1}

	page.Count, err = getInt(headers, "paging-total-items", 0)
	if err != nil {
		return nil, err
	}

	page.NumPages, err = getInt(headers, "paging-total-pages", 0)
	if err != nil {
		return nil, err
	}

	if page.Count > 0 {
		page.StartIndex = request.Offset
		page.EndIndex = request.Offset + page.Count - 1
	}

	page.PreviousPage = headers.Get("paging-previous")
	page.NextPage = headers.Get("paging-next")

	return page, nil
}

func getInt(headers valueFetcher, fieldName string, defaultValue int) (int, error) {
	value := headers.Get(fieldName)
	if value == "" {
		return defaultValue, nil
	}

	valueInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, xerrors.New(fieldName + " is not int")
	}
	return valueInt, nil
}
