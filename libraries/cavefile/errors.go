// Copyright 2019 Dolthub, Inc.
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

package cavefile

import (
	stderrors "errors"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrMalformedInput is returned when a document cannot be parsed: broken XML, invalid UTF-8, an identifier that is
// not an integer, an unknown station type, or a numeric field that a projection could not read.
var ErrMalformedInput = errors.NewKind("malformed input: %s")

// ErrIOFailure is returned when the underlying source or sink fails.
var ErrIOFailure = errors.NewKind("i/o failure: %s")

// IsMalformedInput reports whether any error in err's chain is of kind ErrMalformedInput.
func IsMalformedInput(err error) bool {
	return isKind(err, ErrMalformedInput)
}

// IsIOFailure reports whether any error in err's chain is of kind ErrIOFailure.
func IsIOFailure(err error) bool {
	return isKind(err, ErrIOFailure)
}

func isKind(err error, kind *errors.Kind) bool {
	for err != nil {
		if kind.Is(err) {
			return true
		}

		next := stderrors.Unwrap(err)
		if next == nil {
			if c, ok := err.(interface{ Cause() error }); ok {
				next = c.Cause()
			}
		}

		err = next
	}

	return false
}
