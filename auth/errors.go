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


package auth

import "errors"

var (
	// ErrInvalidToken indicates a missing, malformed, or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials indicates a failed email/password check.
	// Deliberately indistinguishable between unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSecretRequired indicates a missing signing secret.
	ErrSecretRequired = errors.New("signing secret required")
)
