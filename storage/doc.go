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


// Package storage provides the storage abstraction layer for tasknest.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, allowing different storage backends
// (BadgerDB, in-memory) to be used interchangeably.
//
// # Ownership
//
// Every repository operation takes the owning user's ID and is physically
// scoped to it: record keys embed the owner, so a key-range read cannot cross
// owner boundaries. Callers never filter another owner's rows out of a result
// set, because those rows are never read in the first place.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable multiple storage backend implementations:
//
//	repo, err := badger.NewTaskRepository(backend)  // returns storage.TaskRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
package storage
