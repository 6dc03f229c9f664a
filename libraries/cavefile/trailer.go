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

// Everything written after useMagneticAzimuth is constant. Readers of the format expect it to be present.

// Empty placeholders written before Layers.
var trailerBeforeLayers = []string{
	"Constraints",
	"CartoLine",
	"CartoPage",
	"CartoRectangle",
	"CartoSelection",
	"CartoEllipse",
	"CartoSpline",
}

// Empty placeholders written after Layers.
var trailerAfterLayers = []string{
	"CartoOverlay",
	"CartoLinkedSurface",
}

// Style is the drawing style of a layer.
type Style struct {
	DashScale         string
	FillColorString   string
	LineType          string
	LineTypeScale     string
	Opacity           string
	SizeMode          string
	StrokeColorString string
	StrokeThickness   string
}

// Layer is one entry of the Layers element.
type Layer struct {
	Constant string
	Locked   string
	Name     string
	Style    Style
	Visible  string
}

// DefaultStyle is the style every written layer uses.
var DefaultStyle = Style{
	DashScale:         "1.0",
	FillColorString:   "0x00000000",
	LineType:          "STANDARD",
	LineTypeScale:     "1.0",
	Opacity:           "100.0",
	SizeMode:          "SWITCHABLE",
	StrokeColorString: "0x000000ff",
	StrokeThickness:   "1.0",
}

func newLayer(name string) Layer {
	return Layer{
		Constant: True,
		Locked:   False,
		Name:     name,
		Style:    DefaultStyle,
		Visible:  True,
	}
}

// Layers are the two layers every document is written with.
var Layers = []Layer{newLayer("Overlay"), newLayer("Default")}

func (e *emitter) writeTrailer() {
	for _, name := range trailerBeforeLayers {
		e.empty(name)
	}

	e.open("Layers")
	for _, l := range Layers {
		e.open("layerList")
		e.leaf("constant", l.Constant)
		e.leaf("locked", l.Locked)
		e.leaf("name", l.Name)

		e.open("style")
		e.leaf("dashScale", l.Style.DashScale)
		e.leaf("fillColorString", l.Style.FillColorString)
		e.leaf("lineType", l.Style.LineType)
		e.leaf("lineTypeScale", l.Style.LineTypeScale)
		e.leaf("opacity", l.Style.Opacity)
		e.leaf("sizeMode", l.Style.SizeMode)
		e.leaf("strokeColorString", l.Style.StrokeColorString)
		e.leaf("strokeThickness", l.Style.StrokeThickness)
		e.close()

		e.leaf("visible", l.Visible)
		e.close()
	}
	e.close()

	for _, name := range trailerAfterLayers {
		e.empty(name)
	}
}
