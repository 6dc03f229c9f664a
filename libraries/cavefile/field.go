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
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	True  = "true"
	False = "false"
)

// OptString is a text field that may be absent. Absent and empty are the same thing on the wire: both encode as an
// empty element, and an empty element decodes as absent.
type OptString struct {
	Val string
	Set bool
}

// Some returns a present OptString. An empty value is normalized to absent.
func Some(s string) OptString {
	if s == "" {
		return OptString{}
	}

	return OptString{Val: s, Set: true}
}

// None returns an absent OptString.
func None() OptString {
	return OptString{}
}

// String returns the value, or "" when absent.
func (o OptString) String() string {
	if !o.Set {
		return ""
	}

	return o.Val
}

// Ptr returns nil when absent.
func (o OptString) Ptr() *string {
	if !o.Set {
		return nil
	}

	s := o.Val
	return &s
}

// Scan implements sql.Scanner. NULL scans as absent.
func (o *OptString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*o = OptString{}
	case string:
		*o = Some(v)
	case []byte:
		*o = Some(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OptString", src)
	}

	return nil
}

// Value implements driver.Valuer. Absent values are stored as NULL.
func (o OptString) Value() (driver.Value, error) {
	if !o.Set {
		return nil, nil
	}

	return o.Val, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes the three characters free text fields may contain. Quotes and whitespace are written as is.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}

	return textEscaper.Replace(s)
}

// FormatID renders an identifier field.
func FormatID(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses an identifier field. tag is used only to build the error.
func ParseID(tag, s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, ErrMalformedInput.New(fmt.Sprintf("<%s> value %q is not a 32 bit integer", tag, s))
	}

	return int32(n), nil
}

// ParseNumber parses a numeric-as-text field. Only projections call this; the codec never does.
func ParseNumber(tag, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrMalformedInput.New(fmt.Sprintf("<%s> value %q is not a number", tag, s))
	}

	return f, nil
}
