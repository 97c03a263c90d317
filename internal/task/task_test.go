package task

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_String(t *testing.T) {
	tests := []struct {
		task Task
		want string
	}{
		{None, "NONE"},
		{Math, "MATH"},
		{Reading, "READING"},
		{Coding, "CODING"},
		{Creative, "CREATIVE"},
		{Task(42), "Task(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.String())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Task
		wantErr bool
	}{
		{"MATH", Math, false},
		{"reading", Reading, false},
		{"  Coding ", Coding, false},
		{"creative", Creative, false},
		{"none", None, true},
		{"jazz", None, true},
		{"", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTask_NextPrevWrap(t *testing.T) {
	assert.Equal(t, Reading, Math.Next())
	assert.Equal(t, Math, Creative.Next())
	assert.Equal(t, Math, None.Next())
	assert.Equal(t, Creative, Math.Prev())
	assert.Equal(t, Coding, Creative.Prev())
	assert.Equal(t, Creative, None.Prev())
}

func TestTask_TextRoundTrip(t *testing.T) {
	b, err := Coding.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CODING", string(b))

	var got Task
	require.NoError(t, got.UnmarshalText([]byte("coding")))
	assert.Equal(t, Coding, got)

	_, err = None.MarshalText()
	assert.Error(t, err)
}

func TestLookup_EveryTaskHasMetadata(t *testing.T) {
	for _, tk := range All {
		info := Lookup(tk)
		assert.NotEmpty(t, info.Name, tk.String())
		assert.NotEmpty(t, info.BPM, tk.String())
		assert.Len(t, info.Characteristics, 4, tk.String())
		assert.NotEmpty(t, info.Track, tk.String())
	}
}

func TestLookup_PanicsOutsideEnumeration(t *testing.T) {
	assert.Panics(t, func() { Lookup(None) })
	assert.Panics(t, func() { Lookup(Task(9)) })
}

func TestParseCatalog_MissingEntry(t *testing.T) {
	_, err := parseCatalog([]byte("MATH:\n  name: Math\n  track: a.mp3\n"))
	assert.ErrorContains(t, err, "READING")
}

func TestParseCatalog_MissingTrack(t *testing.T) {
	data := []byte(`
MATH: {name: Math}
READING: {name: Reading, track: b.mp3}
CODING: {name: Coding, track: c.mp3}
CREATIVE: {name: Creative, track: d.mp3}
`)
	_, err := parseCatalog(data)
	assert.ErrorContains(t, err, "MATH has no track")
}

func TestResolver_Defaults(t *testing.T) {
	r := NewResolver("/srv/music", nil)

	assert.Equal(t, TrackRef(filepath.Join("/srv/music", "audio/read.mp3")), r.Resolve(Reading))
	assert.Equal(t, TrackRef(filepath.Join("/srv/music", "audio/maths.m4a")), r.Resolve(Math))
}

func TestResolver_Overrides(t *testing.T) {
	r := NewResolver("", map[Task]TrackRef{
		Coding: "https://cdn.example.com/code.m4a",
		None:   "ignored.mp3",
	})

	assert.Equal(t, TrackRef("https://cdn.example.com/code.m4a"), r.Resolve(Coding))
	assert.Equal(t, TrackRef("audio/read.mp3"), r.Resolve(Reading))
	assert.Panics(t, func() { r.Resolve(None) })
}

func TestResolver_IsPure(t *testing.T) {
	r := NewResolver("base", nil)
	for _, tk := range r.Tasks() {
		assert.Equal(t, r.Resolve(tk), r.Resolve(tk))
	}
}

func TestResolver_PanicsOutsideEnumeration(t *testing.T) {
	r := NewResolver("", nil)
	assert.Panics(t, func() { r.Resolve(Task(200)) })
}

func TestTrackRef(t *testing.T) {
	tests := []struct {
		ref    TrackRef
		remote bool
		ext    string
	}{
		{"audio/read.mp3", false, ".mp3"},
		{"/abs/Track.FLAC", false, ".flac"},
		{"https://cdn.example.com/a/code.m4a?sig=abc", true, ".m4a"},
		{"http://host/x.wav", true, ".wav"},
		{"ftp://host/x.wav", false, ".wav"},
	}
	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			assert.Equal(t, tt.remote, tt.ref.IsRemote())
			assert.Equal(t, tt.ext, tt.ref.Ext())
		})
	}
}
