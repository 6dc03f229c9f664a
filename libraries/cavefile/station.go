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

import "fmt"

// StationKind identifies which variant of Station a record decodes to.
type StationKind int

const (
	StartKind StationKind = iota
	RelativeKind
	ClosureKind
)

func (k StationKind) String() string {
	switch k {
	case StartKind:
		return "start"
	case RelativeKind:
		return "relative"
	case ClosureKind:
		return "closure"
	}

	return fmt.Sprintf("StationKind(%d)", int(k))
}

// ParseStationKind classifies a station type discriminant.
func ParseStationKind(ty string) (StationKind, error) {
	switch ty {
	case TypeStart:
		return StartKind, nil
	case TypeReal, TypeVirtual:
		return RelativeKind, nil
	case TypeClosure:
		return ClosureKind, nil
	}

	return 0, ErrMalformedInput.New(fmt.Sprintf("unknown station type %q", ty))
}

// Envelope holds the fields every station kind carries regardless of how it was surveyed.
type Envelope struct {
	Color       string
	Comment     OptString
	Date        string
	DepthIn     string
	Down        string
	Excluded    string
	Explorer    OptString
	Left        string
	Locked      string
	Name        OptString
	ProfileType string
	Right       string
	Section     OptString
	Shape       Shape
	Up          string
}

// Station is the logical view of a record. It is one of *StartStation, *RelativeStation or *ClosureStation.
type Station interface {
	StationID() int32
	Kind() StationKind
	Common() *Envelope
}

// StartStation anchors a survey at an absolute position.
type StartStation struct {
	Envelope
	ID        int32
	Latitude  string
	Longitude string
	Depth     string
}

// RelativeStation is measured from another station. Virtual stations are splays or construction points that do not
// represent surveyed passage.
type RelativeStation struct {
	Envelope
	ID          int32
	FromID      int32
	Virtual     bool
	Azimuth     string
	Inclination string
	Length      string
	Depth       string
}

// ClosureStation asserts that the stations FromID and ToID are the same physical point.
type ClosureStation struct {
	Envelope
	ID     int32
	FromID int32
	ToID   int32
}

var _ Station = (*StartStation)(nil)
var _ Station = (*RelativeStation)(nil)
var _ Station = (*ClosureStation)(nil)

func (s *StartStation) StationID() int32 { return s.ID }
func (s *StartStation) Kind() StationKind { return StartKind }
func (s *StartStation) Common() *Envelope { return &s.Envelope }
func (s *RelativeStation) StationID() int32 { return s.ID }
func (s *RelativeStation) Kind() StationKind { return RelativeKind }
func (s *RelativeStation) Common() *Envelope { return &s.Envelope }
func (s *ClosureStation) StationID() int32 { return s.ID }
func (s *ClosureStation) Kind() StationKind { return ClosureKind }
func (s *ClosureStation) Common() *Envelope { return &s.Envelope }

// NewEnvelope returns an envelope with every field set to its default.
func NewEnvelope() Envelope {
	r := NewDefaultRecord()
	return r.envelope()
}

func (r *Record) envelope() Envelope {
	return Envelope{
		Color:       r.Color,
		Comment:     r.Comment,
		Date:        r.Date,
		DepthIn:     r.DepthIn,
		Down:        r.Down,
		Excluded:    r.Excluded,
		Explorer:    r.Explorer,
		Left:        r.Left,
		Locked:      r.Locked,
		Name:        r.Name,
		ProfileType: r.ProfileType,
		Right:       r.Right,
		Section:     r.Section,
		Shape:       r.Shape,
		Up:          r.Up,
	}
}

func (r *Record) setEnvelope(env *Envelope) {
	r.Color = env.Color
	r.Comment = env.Comment
	r.Date = env.Date
	r.DepthIn = env.DepthIn
	r.Down = env.Down
	r.Excluded = env.Excluded
	r.Explorer = env.Explorer
	r.Left = env.Left
	r.Locked = env.Locked
	r.Name = env.Name
	r.ProfileType = env.ProfileType
	r.Right = env.Right
	r.Section = env.Section
	r.Shape = env.Shape
	r.Up = env.Up
}

// Kind classifies the record by its station type.
func (r *Record) Kind() (StationKind, error) {
	return ParseStationKind(r.StationType)
}

// Station returns the logical view of the record. Fields that carry no meaning for the record's kind are dropped.
func (r *Record) Station() (Station, error) {
	kind, err := r.Kind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case StartKind:
		return &StartStation{
			Envelope:  r.envelope(),
			ID:        r.ID,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Depth:     r.Depth,
		}, nil
	case RelativeKind:
		return &RelativeStation{
			Envelope:    r.envelope(),
			ID:          r.ID,
			FromID:      r.FromID,
			Virtual:     r.StationType == TypeVirtual,
			Azimuth:     r.Azimuth,
			Inclination: r.Inclination,
			Length:      r.Length,
			Depth:       r.Depth,
		}, nil
	default:
		return &ClosureStation{
			Envelope: r.envelope(),
			ID:       r.ID,
			FromID:   r.FromID,
			ToID:     r.ClosureToID,
		}, nil
	}
}

// NewRecord returns the wire form of a station. Fields the station's kind does not carry get their defaults.
func NewRecord(st Station) Record {
	r := NewDefaultRecord()
	r.setEnvelope(st.Common())
	r.ID = st.StationID()

	switch s := st.(type) {
	case *StartStation:
		r.StationType = TypeStart
		r.Latitude = s.Latitude
		r.Longitude = s.Longitude
		r.Depth = s.Depth
	case *RelativeStation:
		r.StationType = TypeReal
		if s.Virtual {
			r.StationType = TypeVirtual
		}
		r.FromID = s.FromID
		r.Azimuth = s.Azimuth
		r.Inclination = s.Inclination
		r.Length = s.Length
		r.Depth = s.Depth
	case *ClosureStation:
		r.StationType = TypeClosure
		r.FromID = s.FromID
		r.ClosureToID = s.ToID
	default:
		panic(fmt.Sprintf("unexpected station type %T", st))
	}

	return r
}
