// Copyright 2026 Baibhav Bista
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
	// ErrEmptyInput is returned when a model operation is given no text to work with.
	ErrEmptyInput = errors.New("empty input text")

	// ErrEmptyResponse is returned when the model produced no usable output.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrUnavailable is returned by Ping when the provider cannot be reached.
	ErrUnavailable = errors.New("provider unavailable")
)
