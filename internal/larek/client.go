// Package larek is a thin HTTP client for the upstream Larek catalog/order
// API. It does exactly two things: fetch the product list and submit a
// completed order. There are no retries and no request de-duplication; every
// call is a single in-flight request bounded by its context.
package larek

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/product"
)

// HTTPError reports a non-2xx upstream response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream responded %d", e.Status)
}

// Config holds the client's endpoints.
type Config struct {
	// BaseURL is the upstream API root, e.g. https://larek.example.com/api.
	BaseURL string
	// CDNURL is prepended to relative product image paths. When empty,
	// image paths are passed through as served.
	CDNURL string
	// HTTPClient overrides the transport; http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Client talks to the upstream API.
type Client struct {
	base string
	cdn  string
	http *http.Client
}

var _ product.Source = (*Client)(nil)

// NewClient creates a Client for the given endpoints.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		cdn:  strings.TrimRight(cfg.CDNURL, "/"),
		http: httpClient,
	}
}

// FetchProducts retrieves the catalog from GET /product. Image paths are
// resolved against the CDN base.
func (c *Client) FetchProducts(ctx context.Context) (product.List, error) {
	body, err := c.do(ctx, http.MethodGet, "/product", nil)
	if err != nil {
		return product.List{}, err
	}

	var list product.List
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "total":
			n, err := d.Int()
			list.Total = n
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				p.Image = c.resolveImage(p.Image)
				list.Items = append(list.Items, p)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return product.List{}, errors.Wrap(err, "decode product list")
	}
	return list, nil
}

// SubmitOrder posts the completed draft to POST /order. A result with a
// non-empty Error field is returned without a Go error: the transport
// succeeded, the order was rejected for business reasons and the caller
// decides what that means for its state.
func (c *Client) SubmitOrder(ctx context.Context, draft order.Draft) (order.Result, error) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("payment", func(e *jx.Encoder) { e.Str(string(draft.Payment)) })
		e.Field("email", func(e *jx.Encoder) { e.Str(draft.Email) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(draft.Phone) })
		e.Field("address", func(e *jx.Encoder) { e.Str(draft.Address) })
		e.Field("total", func(e *jx.Encoder) { e.RawStr(draft.Total.String()) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range draft.Items {
					e.Str(id)
				}
			})
		})
	})

	body, err := c.do(ctx, http.MethodPost, "/order", e.Bytes())
	if err != nil {
		return order.Result{}, err
	}

	var res order.Result
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			s, err := d.Str()
			res.ID = s
			return err
		case "total":
			total, err := decodeDecimal(d)
			res.Total = total.Decimal
			return err
		case "error":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			res.Error = s
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return order.Result{}, errors.Wrap(err, "decode order result")
	}
	return res, nil
}

// do performs one request and returns the response body. Non-2xx statuses
// become *HTTPError with the body preserved for logging.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func (c *Client) resolveImage(path string) string {
	if c.cdn == "" || path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cdn + path
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			s, err := d.Str()
			p.ID = s
			return err
		case "title":
			s, err := d.Str()
			p.Title = s
			return err
		case "description":
			s, err := d.Str()
			p.Description = s
			return err
		case "image":
			s, err := d.Str()
			p.Image = s
			return err
		case "category":
			s, err := d.Str()
			p.Category = product.Category(s)
			return err
		case "price":
			price, err := decodeDecimal(d)
			p.Price = price
			return err
		default:
			return d.Skip()
		}
	})
	return p, err
}

// decodeDecimal reads a JSON number or null into a NullDecimal without going
// through float64, so prices keep their exact representation.
func decodeDecimal(d *jx.Decoder) (decimal.NullDecimal, error) {
	if d.Next() == jx.Null {
		return decimal.NullDecimal{}, d.Null()
	}
	n, err := d.Num()
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: v, Valid: true}, nil
}
