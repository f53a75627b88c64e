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


package openai

import "strings"

// repairJSONArray attempts to fix common formatting issues in LLM responses
// that are expected to be a JSON array: markdown code fences, prose before or
// after the array, and trailing commas before the closing bracket.
func repairJSONArray(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// Cut anything outside the outermost brackets.
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	// Remove a trailing comma before the closing bracket.
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "]"))
	if strings.HasSuffix(inner, ",") {
		s = strings.TrimSuffix(inner, ",") + "]"
	}

	return s
}
