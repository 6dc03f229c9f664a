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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize(testCaveFile())
	require.NoError(t, err)

	assert.Equal(t, 1, s.Starts)
	assert.Equal(t, 3, s.Relatives)
	assert.Equal(t, 1, s.Virtuals)
	assert.Equal(t, 1, s.Closures)
	assert.Equal(t, 5, s.Stations())

	assert.Equal(t, "7.45", s.SurveyedLength.String())
	assert.Equal(t, "1.5", s.VirtualLength.String())
	assert.Equal(t, "0", s.ExcludedLength.String())

	require.True(t, s.HasDepth)
	assert.Equal(t, "0", s.MinDepth.String())
	assert.Equal(t, "2.5", s.MaxDepth.String())
	assert.Equal(t, "2.5", s.DepthRange().String())

	assert.Equal(t, "2021-06-01", s.FirstDate)
	assert.Equal(t, "2021-06-02", s.LastDate)
	assert.Empty(t, s.Dangling)
}

func TestSummarizeDanglingReferences(t *testing.T) {
	cf := New()
	cf.AppendStation(&RelativeStation{Envelope: NewEnvelope(), ID: 2, FromID: 1, Azimuth: "0.0", Length: "1.0", Depth: "0.0"})
	cf.AppendStation(&ClosureStation{Envelope: NewEnvelope(), ID: 3, FromID: 2, ToID: 9})

	s, err := Summarize(cf)
	require.NoError(t, err)
	assert.Equal(t, []DanglingRef{
		{StationID: 2, Tag: TagFromID, Ref: 1},
		{StationID: 3, Tag: TagClosureToID, Ref: 9},
	}, s.Dangling)
	assert.Equal(t, "station 3: CID 9 does not exist", s.Dangling[1].String())
}

func TestSummarizeBadNumber(t *testing.T) {
	cf := New()
	cf.AppendStation(&RelativeStation{Envelope: NewEnvelope(), ID: 1, Length: "long", Depth: "0.0"})

	_, err := Summarize(cf)
	assert.True(t, IsMalformedInput(err))
}
