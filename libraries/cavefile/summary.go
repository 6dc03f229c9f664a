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
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DanglingRef is a reference to a station id that no station in the document has.
type DanglingRef struct {
	StationID int32
	Tag       string
	Ref       int32
}

func (dr DanglingRef) String() string {
	return fmt.Sprintf("station %d: %s %d does not exist", dr.StationID, dr.Tag, dr.Ref)
}

// Summary holds survey totals. Lengths and depths are summed as exact decimals so totals print the way they were
// entered.
type Summary struct {
	Starts    int
	Relatives int
	Virtuals  int
	Closures  int

	// SurveyedLength is the length of REAL stations that are not excluded.
	SurveyedLength decimal.Decimal
	VirtualLength  decimal.Decimal
	ExcludedLength decimal.Decimal

	HasDepth bool
	MinDepth decimal.Decimal
	MaxDepth decimal.Decimal

	FirstDate string
	LastDate  string

	Dangling []DanglingRef
}

// Stations returns the total number of stations.
func (s *Summary) Stations() int {
	return s.Starts + s.Relatives + s.Closures
}

// DepthRange returns the difference between the deepest and the shallowest station.
func (s *Summary) DepthRange() decimal.Decimal {
	return s.MaxDepth.Sub(s.MinDepth)
}

func parseDecimal(tag string, id int32, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrMalformedInput.New(fmt.Sprintf("station %d: <%s> value %q is not a number", id, tag, s))
	}

	return d, nil
}

// Summarize computes a Summary. Dangling references are reported, not treated as errors.
func Summarize(cf *CaveFile) (*Summary, error) {
	stations, err := cf.Stations()
	if err != nil {
		return nil, err
	}

	ids := make(map[int32]struct{}, len(stations))
	for _, st := range stations {
		ids[st.StationID()] = struct{}{}
	}

	s := &Summary{}
	checkRef := func(id int32, tag string, ref int32) {
		if _, ok := ids[ref]; !ok {
			s.Dangling = append(s.Dangling, DanglingRef{StationID: id, Tag: tag, Ref: ref})
		}
	}

	addDepth := func(id int32, text string) error {
		depth, err := parseDecimal(TagDepth, id, text)
		if err != nil {
			return err
		}

		if !s.HasDepth || depth.LessThan(s.MinDepth) {
			s.MinDepth = depth
		}
		if !s.HasDepth || depth.GreaterThan(s.MaxDepth) {
			s.MaxDepth = depth
		}

		s.HasDepth = true
		return nil
	}

	for _, st := range stations {
		env := st.Common()
		if env.Date != "" {
			if s.FirstDate == "" || env.Date < s.FirstDate {
				s.FirstDate = env.Date
			}
			if env.Date > s.LastDate {
				s.LastDate = env.Date
			}
		}

		switch v := st.(type) {
		case *StartStation:
			s.Starts++
			if err := addDepth(v.ID, v.Depth); err != nil {
				return nil, err
			}
		case *RelativeStation:
			s.Relatives++
			checkRef(v.ID, TagFromID, v.FromID)

			length, err := parseDecimal(TagLength, v.ID, v.Length)
			if err != nil {
				return nil, err
			}

			switch {
			case v.Virtual:
				s.Virtuals++
				s.VirtualLength = s.VirtualLength.Add(length)
			case env.Excluded == True:
				s.ExcludedLength = s.ExcludedLength.Add(length)
			default:
				s.SurveyedLength = s.SurveyedLength.Add(length)
			}

			if err := addDepth(v.ID, v.Depth); err != nil {
				return nil, err
			}
		case *ClosureStation:
			s.Closures++
			checkRef(v.ID, TagFromID, v.FromID)
			checkRef(v.ID, TagClosureToID, v.ToID)
		}
	}

	return s, nil
}
