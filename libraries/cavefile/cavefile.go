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

// Package cavefile reads and writes CaveFile (.tmlu) cave survey documents.
//
// Numeric and boolean fields are kept as the exact text found in the document so that a document which is decoded
// and encoded again comes out byte for byte the same. Records keep the flat shape used on the wire; Record.Station
// gives the per kind view.
package cavefile

import (
	"github.com/pkg/errors"
)

// CaveFile is a whole document: its header and its station records in document order.
type CaveFile struct {
	Info Header
	Data []Record
}

// New returns an empty document with a default header.
func New() *CaveFile {
	return &CaveFile{Info: NewHeader()}
}

// Stations returns the logical view of every record, in order.
func (cf *CaveFile) Stations() ([]Station, error) {
	stations := make([]Station, 0, len(cf.Data))
	for i := range cf.Data {
		st, err := cf.Data[i].Station()
		if err != nil {
			return nil, errors.Wrapf(err, "station %d (ID %d)", i+1, cf.Data[i].ID)
		}

		stations = append(stations, st)
	}

	return stations, nil
}

// AppendStation adds a station to the end of the document.
func (cf *CaveFile) AppendStation(st Station) {
	cf.Data = append(cf.Data, NewRecord(st))
}
