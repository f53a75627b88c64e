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


// Package backfill embeds tasks that were stored without a vector.
//
// Task creation treats the embedding provider as best-effort; this package is
// the other half of that bargain. It scans for unembedded tasks, embeds them
// in batches over a worker pool, and attaches the vectors. Batches retry with
// exponential backoff, and a batch that exhausts its retries is skipped so one
// poisoned title cannot stall the rest of the run.
package backfill
