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


// Package storage provides the storage abstraction layer for coursefinder.
//
// This package defines the VectorIndex interface that decouples the
// nearest-neighbor course lookup from its implementation. Title search and
// question answering depend on VectorIndex; the indexer populates it.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface to keep callers decoupled from
// BadgerDB specifics:
//
//	index, err := badger.OpenIndex(path)  // returns storage.VectorIndex
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Usage
//
// Open a persistent index:
//
//	index, err := badger.OpenIndex("/var/lib/coursefinder/index")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer index.Close()
//
// Use in tests with in-memory storage:
//
//	index, err := badger.NewMemoryIndex()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer index.Close()
//
// # Thread Safety
//
// All index implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
