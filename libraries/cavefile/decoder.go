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
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

// Depths at which elements are recognized, counting the root element as depth 1.
const (
	headerFieldDepth  = 2
	stationDepth      = 3
	stationFieldDepth = 4
	shapeFieldDepth   = 5
	radiusFieldDepth  = 7
)

// readErrTracker remembers the last error returned by the source so read failures can be told apart from bad XML.
type readErrTracker struct {
	rd  io.Reader
	err error
}

func (t *readErrTracker) Read(p []byte) (int, error) {
	n, err := t.rd.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}

	return n, err
}

type decoder struct {
	src     *readErrTracker
	xd      *xml.Decoder
	cf      *CaveFile
	path    []string
	text    strings.Builder
	rec     *Record
	rv      int
	sawRoot bool
}

// Decode reads a whole document from rd. Missing elements keep their defaults and unknown elements are skipped. Any
// XML error fails the whole decode with ErrMalformedInput; a failing reader fails it with ErrIOFailure.
func Decode(rd io.Reader) (*CaveFile, error) {
	src := &readErrTracker{rd: rd}
	xd := xml.NewDecoder(src)
	xd.CharsetReader = charset.NewReaderLabel

	d := &decoder{
		src: src,
		xd:  xd,
		cf:  New(),
	}

	for {
		tok, err := d.xd.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, d.tokenErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			err = d.startElement(t.Name.Local)
		case xml.EndElement:
			err = d.endElement(t.Name.Local)
		case xml.CharData:
			d.text.Write(t)
		}

		if err != nil {
			return nil, err
		}
	}

	if !d.sawRoot {
		return nil, ErrMalformedInput.New("document has no root element")
	}

	logrus.Debugf("decoded cave file '%s' with %d stations", d.cf.Info.CaveName, len(d.cf.Data))
	return d.cf, nil
}

// Unmarshal decodes a document held in memory.
func Unmarshal(data []byte) (*CaveFile, error) {
	return Decode(bytes.NewReader(data))
}

func (d *decoder) tokenErr(err error) error {
	if d.src.err != nil {
		return ErrIOFailure.Wrap(d.src.err, d.src.err.Error())
	}

	return ErrMalformedInput.Wrap(err, err.Error())
}

func (d *decoder) startElement(name string) error {
	depth := len(d.path) + 1
	d.path = append(d.path, name)
	d.text.Reset()

	switch {
	case depth == 1:
		if d.sawRoot {
			return ErrMalformedInput.New("document has more than one root element")
		}
		if name != TagCaveFile {
			return ErrMalformedInput.New(fmt.Sprintf("unexpected root element <%s>", name))
		}
		d.sawRoot = true
	case depth == stationDepth && name == TagStation && d.path[1] == TagData:
		rec := NewDefaultRecord()
		d.rec = &rec
		d.rv = -1
	case d.inShape(depth-1) && name == TagRadiusCollection:
		d.rv = -1
	case d.inRadiusCollection(depth-1) && name == TagRadiusVector:
		d.rv++
	}

	return nil
}

func (d *decoder) endElement(name string) error {
	depth := len(d.path)
	d.path = d.path[:depth-1]

	val := d.text.String()
	d.text.Reset()

	switch {
	case depth == headerFieldDepth:
		d.setHeaderField(name, val)
	case depth == stationDepth && d.rec != nil && name == TagStation:
		return d.finishStation()
	case depth == stationFieldDepth && d.rec != nil && d.path[2] == TagStation:
		return d.setStationField(name, val)
	case depth == shapeFieldDepth && d.inShape(depth-1):
		d.setShapeField(name, val)
	case depth == radiusFieldDepth && d.inRadiusVector():
		d.setRadiusField(name, val)
	}

	return nil
}

// inShape reports whether the element at depth is a station's SH.
func (d *decoder) inShape(depth int) bool {
	return d.rec != nil && depth == stationFieldDepth && len(d.path) >= depth && d.path[depth-1] == TagShape
}

func (d *decoder) inRadiusCollection(depth int) bool {
	return d.inShape(depth-1) && d.path[depth-1] == TagRadiusCollection
}

func (d *decoder) inRadiusVector() bool {
	return d.inRadiusCollection(radiusFieldDepth-2) && d.path[radiusFieldDepth-2] == TagRadiusVector
}

func (d *decoder) stationOrdinal() int {
	return len(d.cf.Data) + 1
}

func (d *decoder) finishStation() error {
	if _, err := d.rec.Kind(); err != nil {
		return errors.Wrapf(err, "station %d (ID %d)", d.stationOrdinal(), d.rec.ID)
	}

	d.cf.Data = append(d.cf.Data, *d.rec)
	d.rec = nil

	return nil
}

func (d *decoder) setHeaderField(name, val string) {
	hdr := &d.cf.Info

	switch name {
	case TagCaveName:
		hdr.CaveName = val
	case TagFirstStartAbsoluteElevation:
		hdr.FirstStartAbsoluteElevation = val
	case TagGeoCoding:
		hdr.GeoCoding = val
	case TagUnit:
		hdr.Unit = val
	case TagUseMagneticAzimuth:
		hdr.UseMagneticAzimuth = val
	}
}

func (d *decoder) setID(dest *int32, tag, val string) error {
	if val == "" {
		return nil
	}

	id, err := ParseID(tag, val)
	if err != nil {
		return errors.Wrapf(err, "station %d", d.stationOrdinal())
	}

	*dest = id
	return nil
}

func (d *decoder) setStationField(name, val string) error {
	r := d.rec

	switch name {
	case TagAzimuth:
		r.Azimuth = val
	case TagClosureToID:
		return d.setID(&r.ClosureToID, name, val)
	case TagColor:
		r.Color = val
	case TagComment:
		r.Comment = Some(val)
	case TagDate:
		r.Date = val
	case TagDepth:
		r.Depth = val
	case TagDepthIn:
		r.DepthIn = val
	case TagDown:
		r.Down = val
	case TagExcluded:
		r.Excluded = val
	case TagExplorer:
		r.Explorer = Some(val)
	case TagFromID:
		return d.setID(&r.FromID, name, val)
	case TagID:
		return d.setID(&r.ID, name, val)
	case TagInclination:
		r.Inclination = val
	case TagLatitude:
		r.Latitude = val
	case TagLeft:
		r.Left = val
	case TagLength:
		r.Length = val
	case TagLocked:
		r.Locked = val
	case TagLongitude:
		r.Longitude = val
	case TagName:
		r.Name = Some(val)
	case TagProfileType:
		r.ProfileType = val
	case TagRight:
		r.Right = val
	case TagSection:
		r.Section = Some(val)
	case TagStationType:
		r.StationType = val
	case TagUp:
		r.Up = val
	case TagShape:
	default:
		logrus.Tracef("station %d: skipping unknown element <%s>", d.stationOrdinal(), name)
	}

	return nil
}

func (d *decoder) setShapeField(name, val string) {
	sh := &d.rec.Shape

	switch name {
	case TagHasProfileAzimuth:
		sh.HasProfileAzimuth = val
	case TagHasProfileTilt:
		sh.HasProfileTilt = val
	case TagProfileAzimuth:
		sh.ProfileAzimuth = val
	case TagProfileTilt:
		sh.ProfileTilt = val
	}
}

func (d *decoder) setRadiusField(name, val string) {
	if d.rv < 0 || d.rv >= len(d.rec.Shape.RadiusVectors) {
		logrus.Tracef("station %d: skipping radius vector %d", d.stationOrdinal(), d.rv)
		return
	}

	rv := &d.rec.Shape.RadiusVectors[d.rv]

	switch name {
	case TagRadiusLength:
		rv.Length = val
	case TagTensionCorridor:
		rv.TensionCorridor = val
	case TagTensionProfile:
		rv.TensionProfile = val
	}
}
