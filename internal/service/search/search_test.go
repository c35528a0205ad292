package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	body        string
	requestBody string
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		t.requestBody = string(data)
	}

	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(t.body)),
	}, nil
}

func newTestClient(t *testing.T, transport *fakeTransport) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Transport: transport})
	require.NoError(t, err)
	return client
}

func TestSearch_DecodesHits(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{body: `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": 3, "name": "desk lamp", "description": "warm", "price": 19.9, "displayed_on_eshop": true, "active": true}},
				{"_source": {"id": 4, "name": "floor lamp", "description": "tall", "price": 49, "displayed_on_eshop": true, "active": true}}
			]
		}
	}`}
	client := newTestClient(t, transport)

	total, products, err := Search(context.Background(), client, "product", "lamp", 0, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.EqualValues(t, 3, products[0].ID)
	assert.Equal(t, "desk lamp", products[0].Name)
	assert.Equal(t, 19.9, products[0].Price)
	assert.EqualValues(t, 4, products[1].ID)
	assert.Equal(t, "floor lamp", products[1].Name)
}

func TestSearch_QueriesPurchasableOnly(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{body: `{"hits": {"total": {"value": 0}, "hits": []}}`}
	client := newTestClient(t, transport)

	_, products, err := Search(context.Background(), client, "product", "lamp", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.Contains(t, transport.requestBody, `"displayed_on_eshop":true`)
	assert.Contains(t, transport.requestBody, `"active":true`)
	assert.Contains(t, transport.requestBody, `"multi_match"`)
}
