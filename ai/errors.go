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


package ai

import "errors"

var (
	// ErrEmptyText is returned when text passed to an AI service is empty
	// after trimming. The text is rejected before any external call is made.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrProviderUnavailable indicates the external model endpoint could not
	// be reached or answered with a failure. Retry policy belongs to the
	// caller, not to this package.
	ErrProviderUnavailable = errors.New("AI provider unavailable")

	// ErrMalformedResponse indicates the external model answered but the
	// response did not contain the expected payload: a missing or truncated
	// vector, a vector with non-finite components, or unparseable JSON.
	ErrMalformedResponse = errors.New("malformed AI provider response")
)
