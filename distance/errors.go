package distance

import "errors"

var (
	// ErrRouterRequired is returned when a service is created without a router.
	ErrRouterRequired = errors.New("distance router required")

	// ErrTokenRequired is returned when the Mapbox router is created without an access token.
	ErrTokenRequired = errors.New("mapbox access token required")

	// ErrNoRoute indicates the routing service found no route between the points.
	ErrNoRoute = errors.New("no route found")

	// ErrRouteFailed indicates the routing service rejected or failed the request.
	ErrRouteFailed = errors.New("route request failed")
)
