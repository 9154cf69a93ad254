// Package server exposes course search and question answering over HTTP
// with Fiber.
//
// A user's location is kept per session. The first /save_location call sets
// a session cookie whose UUID keys an in-memory, TTL-bounded session store;
// search requests may also carry coordinates in the body, which take
// precedence over the session. Every response is JSON with a "status" of
// "success" or "error".
package server
