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
// Package search answers the three course queries: by title, by code and by
// professor.
//
// Title search embeds the query and asks a storage.VectorIndex for the
// nearest course documents; the returned course strings are resolved back
// through the catalog, and entries that no longer exist are skipped. Code
// search is a suffix match over colon-stripped codes. Professor search is a
// case-insensitive substring match over instructor names that falls back to
// Jaro-Winkler suggestions when nothing matches.
//
// Every course hit is shaped by an Assembler, which formats instructors and
// prerequisites and attaches community college equivalencies ranked by the
// caller's driving distance.
package search
