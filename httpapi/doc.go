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


// Package httpapi exposes tasknest over HTTP.
//
// Every route except registration, login, and the health check requires a
// Bearer token; the owner is always taken from the token, never from the
// request. Domain errors are translated to HTTP status codes in exactly one
// place (respond.go), so handlers return errors instead of picking codes.
package httpapi
