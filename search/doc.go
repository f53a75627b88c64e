// Copyright 2025 The tasknest Authors
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


// Package search provides semantic search over a user's tasks.
//
// The Searcher type orchestrates a search: it embeds the query text, scans
// the owner's embedded tasks from storage, and ranks them by cosine
// similarity. Ranking is a pure function over the scanned candidates, so
// storage stays a dumb key-value scan and scoring policy lives in one place.
//
// Results below the minimum score are dropped rather than padded; an empty
// result set is an honest answer, not an error.
package search
