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
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapStations(srvds ...string) string {
	return "<CaveFile><Data>" + strings.Join(srvds, "") + "</Data></CaveFile>"
}

func TestDecodeMinimalStations(t *testing.T) {
	tests := []struct {
		ty   string
		kind StationKind
	}{
		{TypeStart, StartKind},
		{TypeReal, RelativeKind},
		{TypeVirtual, RelativeKind},
		{TypeClosure, ClosureKind},
	}

	for _, test := range tests {
		t.Run(test.ty, func(t *testing.T) {
			cf, err := Unmarshal([]byte(wrapStations("<SRVD><TY>" + test.ty + "</TY><ID>9</ID></SRVD>")))
			require.NoError(t, err)
			require.Len(t, cf.Data, 1)

			expected := NewDefaultRecord()
			expected.ID = 9
			expected.StationType = test.ty
			assert.Equal(t, expected, cf.Data[0])
			assert.Equal(t, NewHeader(), cf.Info)

			kind, err := cf.Data[0].Kind()
			require.NoError(t, err)
			assert.Equal(t, test.kind, kind)
		})
	}
}

func TestDecodeRadiusVectorsByPosition(t *testing.T) {
	rv := func(ag, lg string) string {
		return "<RV><ag>" + ag + "</ag><lg>" + lg + "</lg><tc>2.0</tc><tp>3.0</tp></RV>"
	}

	srvd := "<SRVD><ID>1</ID><TY>REAL</TY><SH><HPRA>true</HPRA><RC>" +
		rv("270.0", "4.0") + rv("90.0", "3.0") + rv("180.0", "2.0") + rv("0.0", "1.0") + rv("45.0", "9.9") +
		"</RC></SH></SRVD>"

	cf, err := Unmarshal([]byte(wrapStations(srvd)))
	require.NoError(t, err)
	require.Len(t, cf.Data, 1)

	sh := cf.Data[0].Shape
	assert.Equal(t, True, sh.HasProfileAzimuth)
	assert.Equal(t, False, sh.HasProfileTilt)

	for i, vec := range sh.RadiusVectors {
		assert.Equal(t, RadiusAngles[i], vec.Angle)
		assert.Equal(t, "2.0", vec.TensionCorridor)
		assert.Equal(t, "3.0", vec.TensionProfile)
	}

	lengths := []string{"4.0", "3.0", "2.0", "1.0"}
	for i, lg := range lengths {
		assert.Equal(t, lg, sh.RadiusVectors[i].Length)
	}
}

func TestDecodeSkipsUnknownElements(t *testing.T) {
	srvd := "<SRVD><ID>3</ID><ZZ>foo</ZZ><TY>START</TY><Nested><CM>not a comment</CM></Nested></SRVD>"
	doc := "<CaveFile><caveName>c</caveName><Unknown>x</Unknown><Data>" + srvd + "</Data><Extra><SRVD><ID>8</ID></SRVD></Extra></CaveFile>"

	cf, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cf.Data, 1)

	expected := NewDefaultRecord()
	expected.ID = 3
	expected.StationType = TypeStart
	assert.Equal(t, expected, cf.Data[0])
	assert.Equal(t, "c", cf.Info.CaveName)
}

func TestDecodeOptionalFields(t *testing.T) {
	tests := []struct {
		name     string
		fields   string
		expected OptString
	}{
		{"omitted", "", None()},
		{"empty", "<CM></CM>", None()},
		{"self closing", "<CM/>", None()},
		{"present", "<CM>tight</CM>", Some("tight")},
		{"escaped", "<CM>a &lt; b &amp;&amp; c &gt; d</CM>", Some("a < b && c > d")},
		{"whitespace kept", "<CM> x </CM>", Some(" x ")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cf, err := Unmarshal([]byte(wrapStations("<SRVD><ID>1</ID>" + test.fields + "<TY>START</TY></SRVD>")))
			require.NoError(t, err)
			assert.Equal(t, test.expected, cf.Data[0].Comment)
		})
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad id", wrapStations("<SRVD><ID>notanumber</ID><TY>START</TY></SRVD>")},
		{"bad from id", wrapStations("<SRVD><ID>1</ID><FRID>1.5</FRID><TY>REAL</TY></SRVD>")},
		{"bad closure id", wrapStations("<SRVD><ID>1</ID><CID>x</CID><TY>CLOSURE</TY></SRVD>")},
		{"id overflow", wrapStations("<SRVD><ID>2147483648</ID><TY>START</TY></SRVD>")},
		{"unknown station type", wrapStations("<SRVD><ID>1</ID><TY>SPLAY</TY></SRVD>")},
		{"missing station type", wrapStations("<SRVD><ID>1</ID></SRVD>")},
		{"unbalanced", "<CaveFile><Data><SRVD></Data></CaveFile>"},
		{"truncated", "<CaveFile><Data><SRVD><ID>1</ID>"},
		{"invalid utf8", "<CaveFile><caveName>\xff\xfe</caveName></CaveFile>"},
		{"empty", ""},
		{"foreign root", "<gpx><trk/></gpx>"},
		{"two roots", "<CaveFile><caveName>a</caveName></CaveFile><CaveFile><caveName>b</caveName></CaveFile>"},
		{"unknown charset", `<?xml version="1.0" encoding="x-no-such-charset"?><CaveFile/>`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cf, err := Unmarshal([]byte(test.doc))
			require.Error(t, err)
			assert.Nil(t, cf)
			assert.True(t, IsMalformedInput(err), "unexpected error: %v", err)
			assert.False(t, IsIOFailure(err))
		})
	}
}

func TestDecodeEmptyIDKeepsDefault(t *testing.T) {
	cf, err := Unmarshal([]byte(wrapStations("<SRVD><ID></ID><FRID/><TY>START</TY></SRVD>")))
	require.NoError(t, err)
	assert.Equal(t, int32(0), cf.Data[0].ID)
	assert.Equal(t, int32(0), cf.Data[0].FromID)
}

type failingReader struct {
	data []byte
	err  error
}

func (fr *failingReader) Read(p []byte) (int, error) {
	if len(fr.data) == 0 {
		return 0, fr.err
	}

	n := copy(p, fr.data)
	fr.data = fr.data[n:]
	return n, nil
}

func TestDecodeReadFailure(t *testing.T) {
	rd := &failingReader{data: []byte("<CaveFile><Data>"), err: errors.New("disk on fire")}

	_, err := Decode(rd)
	require.Error(t, err)
	assert.True(t, IsIOFailure(err))
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = Decode(&failingReader{err: io.ErrUnexpectedEOF})
	assert.True(t, IsIOFailure(err))
}

func TestDecodeDeclaredCharset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><CaveFile><caveName>Bj\xf8rnehula</caveName></CaveFile>"

	cf, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Bjørnehula", cf.Info.CaveName)
}

func TestDecodeHeaderFieldsOnlyAtTopLevel(t *testing.T) {
	doc := "<CaveFile><unit>ft</unit><Data><SRVD><unit>yd</unit><ID>1</ID><TY>START</TY></SRVD></Data>" +
		"<Layers><layerList><name>Overlay</name></layerList></Layers><useMagneticAzimuth>false</useMagneticAzimuth></CaveFile>"

	cf, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "ft", cf.Info.Unit)
	assert.Equal(t, False, cf.Info.UseMagneticAzimuth)
	assert.Equal(t, "", cf.Info.CaveName)
}
