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

package table

import (
	"fmt"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
)

// DefaultTableName is the table tabular sources and destinations use unless told otherwise.
const DefaultTableName = "survey_data"

// ColumnKind describes how a column's value is stored.
type ColumnKind int

const (
	TextColumn ColumnKind = iota
	IntColumn
	NullableTextColumn
)

// Column maps one station record field to a column of a tabular destination.
type Column struct {
	Name string
	Tag  string
	Kind ColumnKind
	PK   bool
}

// Columns are the columns of a station table, in order. The shape is not stored; readers regenerate the default.
var Columns = []Column{
	{"id", cavefile.TagID, IntColumn, true},
	{"azimuth", cavefile.TagAzimuth, TextColumn, false},
	{"closure_to_id", cavefile.TagClosureToID, IntColumn, false},
	{"color", cavefile.TagColor, TextColumn, false},
	{"comment", cavefile.TagComment, NullableTextColumn, false},
	{"date", cavefile.TagDate, TextColumn, false},
	{"depth", cavefile.TagDepth, TextColumn, false},
	{"depth_in", cavefile.TagDepthIn, TextColumn, false},
	{"down", cavefile.TagDown, TextColumn, false},
	{"excluded", cavefile.TagExcluded, TextColumn, false},
	{"explorer", cavefile.TagExplorer, NullableTextColumn, false},
	{"from_id", cavefile.TagFromID, IntColumn, false},
	{"inclination", cavefile.TagInclination, TextColumn, false},
	{"latitude", cavefile.TagLatitude, TextColumn, false},
	{"left", cavefile.TagLeft, TextColumn, false},
	{"length", cavefile.TagLength, TextColumn, false},
	{"locked", cavefile.TagLocked, TextColumn, false},
	{"longitude", cavefile.TagLongitude, TextColumn, false},
	{"name", cavefile.TagName, NullableTextColumn, false},
	{"profile_type", cavefile.TagProfileType, TextColumn, false},
	{"right", cavefile.TagRight, TextColumn, false},
	{"section", cavefile.TagSection, NullableTextColumn, false},
	{"station_type", cavefile.TagStationType, TextColumn, false},
	{"up", cavefile.TagUp, TextColumn, false},
}

// ColumnNames returns the names of Columns.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, col := range Columns {
		names[i] = col.Name
	}

	return names
}

func (col Column) textField(r *cavefile.Record) *string {
	switch col.Tag {
	case cavefile.TagAzimuth:
		return &r.Azimuth
	case cavefile.TagColor:
		return &r.Color
	case cavefile.TagDate:
		return &r.Date
	case cavefile.TagDepth:
		return &r.Depth
	case cavefile.TagDepthIn:
		return &r.DepthIn
	case cavefile.TagDown:
		return &r.Down
	case cavefile.TagExcluded:
		return &r.Excluded
	case cavefile.TagInclination:
		return &r.Inclination
	case cavefile.TagLatitude:
		return &r.Latitude
	case cavefile.TagLeft:
		return &r.Left
	case cavefile.TagLength:
		return &r.Length
	case cavefile.TagLocked:
		return &r.Locked
	case cavefile.TagLongitude:
		return &r.Longitude
	case cavefile.TagProfileType:
		return &r.ProfileType
	case cavefile.TagRight:
		return &r.Right
	case cavefile.TagStationType:
		return &r.StationType
	case cavefile.TagUp:
		return &r.Up
	}

	panic(fmt.Sprintf("column %s is not a text column", col.Name))
}

func (col Column) intField(r *cavefile.Record) *int32 {
	switch col.Tag {
	case cavefile.TagID:
		return &r.ID
	case cavefile.TagClosureToID:
		return &r.ClosureToID
	case cavefile.TagFromID:
		return &r.FromID
	}

	panic(fmt.Sprintf("column %s is not an integer column", col.Name))
}

func (col Column) optField(r *cavefile.Record) *cavefile.OptString {
	switch col.Tag {
	case cavefile.TagComment:
		return &r.Comment
	case cavefile.TagExplorer:
		return &r.Explorer
	case cavefile.TagName:
		return &r.Name
	case cavefile.TagSection:
		return &r.Section
	}

	panic(fmt.Sprintf("column %s is not a nullable column", col.Name))
}

// Value returns the column's value for r: an int64, a string, or nil for an absent optional field.
func (col Column) Value(r *cavefile.Record) interface{} {
	switch col.Kind {
	case IntColumn:
		return int64(*col.intField(r))
	case NullableTextColumn:
		if opt := col.optField(r); opt.Set {
			return opt.Val
		}
		return nil
	default:
		return *col.textField(r)
	}
}

// String returns the column's value for r as text. Absent optional fields are "".
func (col Column) String(r *cavefile.Record) string {
	switch col.Kind {
	case IntColumn:
		return cavefile.FormatID(*col.intField(r))
	case NullableTextColumn:
		return col.optField(r).String()
	default:
		return *col.textField(r)
	}
}

// SetString parses s into the column's field of r. Empty text sets an optional field absent.
func (col Column) SetString(r *cavefile.Record, s string) error {
	switch col.Kind {
	case IntColumn:
		id, err := cavefile.ParseID(col.Tag, s)
		if err != nil {
			return err
		}
		*col.intField(r) = id
	case NullableTextColumn:
		*col.optField(r) = cavefile.Some(s)
	default:
		*col.textField(r) = s
	}

	return nil
}

// RowValues returns the values of every column for r, in column order.
func RowValues(r *cavefile.Record) []interface{} {
	vals := make([]interface{}, len(Columns))
	for i, col := range Columns {
		vals[i] = col.Value(r)
	}

	return vals
}

// InfoTableName returns the name of the table holding the document header for the station table tblName.
func InfoTableName(tblName string) string {
	return tblName + "_info"
}

// HeaderColumn maps one document header field to a column of a header table.
type HeaderColumn struct {
	Name string
	Tag  string
}

// HeaderColumns are the columns of a header table, in order.
var HeaderColumns = []HeaderColumn{
	{"cave_name", cavefile.TagCaveName},
	{"first_start_absolute_elevation", cavefile.TagFirstStartAbsoluteElevation},
	{"geo_coding", cavefile.TagGeoCoding},
	{"unit", cavefile.TagUnit},
	{"use_magnetic_azimuth", cavefile.TagUseMagneticAzimuth},
}

// HeaderColumnNames returns the names of HeaderColumns.
func HeaderColumnNames() []string {
	names := make([]string, len(HeaderColumns))
	for i, col := range HeaderColumns {
		names[i] = col.Name
	}

	return names
}

func (col HeaderColumn) field(hdr *cavefile.Header) *string {
	switch col.Tag {
	case cavefile.TagCaveName:
		return &hdr.CaveName
	case cavefile.TagFirstStartAbsoluteElevation:
		return &hdr.FirstStartAbsoluteElevation
	case cavefile.TagGeoCoding:
		return &hdr.GeoCoding
	case cavefile.TagUnit:
		return &hdr.Unit
	case cavefile.TagUseMagneticAzimuth:
		return &hdr.UseMagneticAzimuth
	}

	panic(fmt.Sprintf("column %s is not a header column", col.Name))
}

// String returns the column's value for hdr.
func (col HeaderColumn) String(hdr *cavefile.Header) string {
	return *col.field(hdr)
}

// SetString sets the column's field of hdr.
func (col HeaderColumn) SetString(hdr *cavefile.Header, s string) {
	*col.field(hdr) = s
}

// HeaderValues returns the values of every header column for hdr, in column order.
func HeaderValues(hdr *cavefile.Header) []interface{} {
	vals := make([]interface{}, len(HeaderColumns))
	for i, col := range HeaderColumns {
		vals[i] = col.String(hdr)
	}

	return vals
}
