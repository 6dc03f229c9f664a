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

// Element names of the document header.
const (
	TagCaveFile                    = "CaveFile"
	TagCaveName                    = "caveName"
	TagFirstStartAbsoluteElevation = "firstStartAbsoluteElevation"
	TagGeoCoding                   = "geoCoding"
	TagListAnnotation              = "ListAnnotation"
	TagData                        = "Data"
	TagUnit                        = "unit"
	TagUseMagneticAzimuth          = "useMagneticAzimuth"
)

// Element names of a station record, in wire order.
const (
	TagStation     = "SRVD"
	TagAzimuth     = "AZ"
	TagClosureToID = "CID"
	TagColor       = "CL"
	TagComment     = "CM"
	TagDate        = "DT"
	TagDepth       = "DP"
	TagDepthIn     = "DPI"
	TagDown        = "D"
	TagExcluded    = "EXC"
	TagExplorer    = "EX"
	TagFromID      = "FRID"
	TagID          = "ID"
	TagInclination = "INC"
	TagLatitude    = "LT"
	TagLeft        = "L"
	TagLength      = "LG"
	TagLocked      = "LK"
	TagLongitude   = "LGT"
	TagName        = "NM"
	TagProfileType = "PRTY"
	TagRight       = "R"
	TagSection     = "SC"
	TagShape       = "SH"
	TagStationType = "TY"
	TagUp          = "U"

	TagHasProfileAzimuth = "HPRA"
	TagHasProfileTilt    = "HPRT"
	TagProfileAzimuth    = "PRAZ"
	TagProfileTilt       = "PRT"
	TagRadiusCollection  = "RC"
	TagRadiusVector      = "RV"

	TagAngle           = "ag"
	TagRadiusLength    = "lg"
	TagTensionCorridor = "tc"
	TagTensionProfile  = "tp"
)

// Station type discriminants.
const (
	TypeStart   = "START"
	TypeReal    = "REAL"
	TypeVirtual = "VIRTUAL"
	TypeClosure = "CLOSURE"
)

const (
	DefaultNumber      = "0.0"
	DefaultColor       = "0"
	DefaultDate        = "2021-01-01"
	DefaultProfileType = "0"
	DefaultStationType = "0"
	DefaultUnit        = "m"
	DefaultTension     = "1.0"
)

// RadiusAngles are the angles of the four radius vectors, in the order they are always stored and written.
var RadiusAngles = [4]string{"0.0", "180.0", "90.0", "270.0"}

// Header holds the document level fields that precede the station data.
type Header struct {
	CaveName                    string
	FirstStartAbsoluteElevation string
	GeoCoding                   string
	Unit                        string
	UseMagneticAzimuth          string
}

// NewHeader returns a Header with every field set to its default.
func NewHeader() Header {
	return Header{
		FirstStartAbsoluteElevation: DefaultNumber,
		Unit:                        DefaultUnit,
		UseMagneticAzimuth:          True,
	}
}

// RadiusVector is one directional radius of a passage cross section. Angle is fixed by the vector's position.
type RadiusVector struct {
	Angle           string
	Length          string
	TensionCorridor string
	TensionProfile  string
}

// Shape is the passage cross section at a station.
type Shape struct {
	HasProfileAzimuth string
	HasProfileTilt    string
	ProfileAzimuth    string
	ProfileTilt       string
	RadiusVectors     [4]RadiusVector
}

// NewShape returns the default shape. Table backed sources regenerate shapes with it.
func NewShape() Shape {
	sh := Shape{
		HasProfileAzimuth: False,
		HasProfileTilt:    False,
		ProfileAzimuth:    DefaultNumber,
		ProfileTilt:       DefaultNumber,
	}

	for i, ag := range RadiusAngles {
		sh.RadiusVectors[i] = RadiusVector{
			Angle:           ag,
			Length:          DefaultNumber,
			TensionCorridor: DefaultTension,
			TensionProfile:  DefaultTension,
		}
	}

	return sh
}

// Record is one SRVD element exactly as it appears on the wire. Every station kind carries the full field set; use
// Station to get at the fields that mean something for a particular kind.
type Record struct {
	Azimuth     string
	ClosureToID int32
	Color       string
	Comment     OptString
	Date        string
	Depth       string
	DepthIn     string
	Down        string
	Excluded    string
	Explorer    OptString
	FromID      int32
	ID          int32
	Inclination string
	Latitude    string
	Left        string
	Length      string
	Locked      string
	Longitude   string
	Name        OptString
	ProfileType string
	Right       string
	Section     OptString
	Shape       Shape
	StationType string
	Up          string
}

// NewDefaultRecord returns a Record with every field set to its default. Its StationType is not a valid kind.
func NewDefaultRecord() Record {
	return Record{
		Azimuth:     DefaultNumber,
		Color:       DefaultColor,
		Date:        DefaultDate,
		Depth:       DefaultNumber,
		DepthIn:     DefaultNumber,
		Down:        DefaultNumber,
		Excluded:    False,
		Inclination: DefaultNumber,
		Latitude:    DefaultNumber,
		Left:        DefaultNumber,
		Length:      DefaultNumber,
		Locked:      False,
		Longitude:   DefaultNumber,
		ProfileType: DefaultProfileType,
		Right:       DefaultNumber,
		Shape:       NewShape(),
		StationType: DefaultStationType,
		Up:          DefaultNumber,
	}
}
