package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/coursefinder/core"
)

// Router computes the driving distance between two points.
// Implementations must be safe for concurrent use.
type Router interface {
	// Route returns the driving distance from origin to dest in meters.
	Route(ctx context.Context, origin, dest core.Location) (float64, error)
}

const defaultMapboxBaseURL = "https://api.mapbox.com"

// MapboxRouter implements Router with the Mapbox Directions API.
type MapboxRouter struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Router = (*MapboxRouter)(nil)

// MapboxOption configures a MapboxRouter.
type MapboxOption func(*MapboxRouter) error

// WithBaseURL points the router at a different API host.
func WithBaseURL(baseURL string) MapboxOption {
	return func(r *MapboxRouter) error {
		if _, err := url.Parse(baseURL); err != nil {
			return err
		}
		r.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) MapboxOption {
	return func(r *MapboxRouter) error {
		if client != nil {
			r.client = client
		}
		return nil
	}
}

// NewMapboxRouter creates a router that authenticates with token.
func NewMapboxRouter(token string, opts ...MapboxOption) (*MapboxRouter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenRequired
	}

	r := &MapboxRouter{
		token:   token,
		baseURL: defaultMapboxBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default().With("component", "mapbox"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Legs     []struct {
			Distance float64 `json:"distance"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route asks the driving profile for a route and returns the first leg's distance.
func (r *MapboxRouter) Route(ctx context.Context, origin, dest core.Location) (float64, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s;%s",
		r.baseURL, coordinate(origin), coordinate(dest))

	query := url.Values{}
	query.Set("access_token", r.token)
	query.Set("geometries", "geojson")
	query.Set("overview", "simplified")
	query.Set("annotations", "distance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, err
	}

	var payload directionsResponse
	if resp.StatusCode != http.StatusOK {
		_ = json.Unmarshal(body, &payload)
		return 0, fmt.Errorf("%w: status %d: %s", ErrRouteFailed, resp.StatusCode, payload.Message)
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRouteFailed, err)
	}

	if len(payload.Routes) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoRoute, payload.Code)
	}
	route := payload.Routes[0]
	if len(route.Legs) > 0 {
		return route.Legs[0].Distance, nil
	}
	return route.Distance, nil
}

// coordinate renders a location in Mapbox "lon,lat" order.
func coordinate(l core.Location) string {
	return strconv.FormatFloat(l.Longitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Latitude, 'f', -1, 64)
}
