package paging_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"net/http"
	"testing"

	"github.com/illuscio-dev/spanviews-go/paging"
	"github.com/stretchr/testify/assert"
)

func TestRequestRoundTrip(test *testing.T) {
	assert := assert.New(test)

	request := &paging.Request{
		Offset: 10,
		Limit:  50,
	}

	header := make(http.Header)

	request.ToParams(header)
	loaded, err := paging.RequestFromParams(header, 50)

	assert.Nil(err)
	assert.Equal(request, loaded)
}

func TestRequestDumpNoLimit(test *testing.T) {
	assert := assert.New(test)

	request := &paging.Request{Offset: 10}
	header := make(http.Header)

	request.ToParams(header)

	assert.Equal("10", header.Get("paging-offset"))
	assert.Equal("", header.Get("paging-limit"))
}

func TestRequestBadInt(test *testing.T) {
	header := make(http.Header)
	header.Set("paging-limit", "lots")

	_, err := paging.RequestFromParams(header, 50)

	assert.EqualError(test, err, "paging-limit is not int")
}

func TestSinglePage(test *testing.T) {
	assert := assert.New(test)

	page := paging.SinglePage(3)

	assert.Equal(
		map[string]interface{}{
			"count":         3,
			"limit":         3,
			"per_page":      3,
			"num_pages":     1,
			"next_page":     nil,
			"previous_page": nil,
			"start_index":   0,
			"end_index":     2,
		},
		page.Metadata(),
	)
}

func TestSinglePageEmpty(test *testing.T) {
	assert := assert.New(test)

	metadata := paging.SinglePage(0).Metadata()

	assert.Equal(0, metadata["count"])
	assert.Nil(metadata["start_index"])
	assert.Nil(metadata["end_index"])
}

func TestSinglePageOneItem(test *testing.T) {
	metadata := paging.SinglePage(1).Metadata()

	assert.Equal(test, 0, metadata["start_index"])
	assert.Equal(test, 0, metadata["end_index"])
}

func TestPageHeadersRoundTrip(test *testing.T) {
	for _, count := range []int{0, 1, 3} {
		page := paging.SinglePage(count)
		header := make(http.Header)

		page.ToHeaders(header)
		loaded, err := paging.FromHeaders(header)

		assert.NoError(test, err)
		assert.Equal(test, page, loaded)
	}
}

func TestPageHeadersLinks(test *testing.T) {
	assert := assert.New(test)

	page := paging.SinglePage(2)
	page.NextPage = "http://api.test/widgets?page=3"
	page.PreviousPage = "http://api.test/widgets?page=1"

	header := make(http.Header)
	page.ToHeaders(header)

	assert.Equal("2", header.Get("paging-total-items"))
	assert.Equal("1", header.Get("paging-current-page"))
	assert.Equal(page.NextPage, header.Get("paging-next"))
	assert.Equal(page.PreviousPage, header.Get("paging-previous"))
}

func TestFromMetadataDecodedNumbers(test *testing.T) {
	assert := assert.New(test)

	// Numbers as they come back from a decoded JSON body.
	metadata := map[string]interface{}{
		"type":          "widgets",
		"count":         float64(3),
		"limit":         int64(3),
		"per_page":      int64(3),
		"num_pages":     int64(1),
		"next_page":     nil,
		"previous_page": nil,
		"start_index":   int64(0),
		"end_index":     int64(2),
	}

	page, ok := paging.FromMetadata(metadata)

	assert.True(ok)
	assert.Equal(paging.SinglePage(3), page)

	_, ok = paging.FromMetadata(map[string]interface{}{"type": "widget"})
	assert.False(ok)
}
