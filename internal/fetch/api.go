package fetch

import (
	"context"
	"net/url"
	"strconv"

	"github.com/localharvest/marketclient/pkg/envelope"
)

// API is the part of api.Client the fetch units need.
type API interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// FromAPI builds a Getter that GETs path and unwraps the response envelope.
// A {"success": false} envelope becomes an error carrying the server message.
func FromAPI[T any](c API, path string, query url.Values) Getter[T] {
	return func(ctx context.Context) (T, error) {
		body, err := c.Get(ctx, path, query)
		if err != nil {
			var zero T
			return zero, err
		}
		return envelope.Decode[T](body).Unwrap()
	}
}

// PagesFromAPI builds a PageGetter that adds page and limit to query and
// accepts every list shape the backend sends. keys names extra collection
// fields to look for, such as "categories".
func PagesFromAPI[T any](c API, path string, query url.Values, keys ...string) PageGetter[T] {
	return func(ctx context.Context, page, limit int) ([]T, error) {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(limit))

		body, err := c.Get(ctx, path, q)
		if err != nil {
			return nil, err
		}
		return envelope.DecodeList[T](body, keys...).Unwrap()
	}
}
