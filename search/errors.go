// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package search

import "errors"

var (
	// ErrCatalogRequired is returned when a searcher is created without a catalog.
	ErrCatalogRequired = errors.New("course catalog required")

	// ErrResolverRequired is returned when a searcher is created without an equivalency resolver.
	ErrResolverRequired = errors.New("equivalency resolver required")

	// ErrEmptyQuery is returned for an empty or whitespace-only search term.
	ErrEmptyQuery = errors.New("search term is required")

	// ErrIndexUnavailable is returned by title search when no nearest-neighbor
	// index or embedder is configured.
	ErrIndexUnavailable = errors.New("course index unavailable")

	// ErrLookupFailed wraps failures of the embedding or nearest-neighbor services.
	ErrLookupFailed = errors.New("course lookup failed")
)
