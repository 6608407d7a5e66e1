package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoyhive/decoyhive/pkg/types"
)

func TestApplyUsername(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyUsername, "jsmith")

	files := []types.FileSpec{
		{Path: ".bashrc", Content: "export PATH=/home/alice/bin:$PATH\n"},
		{Path: "notes.txt", Content: "User: bob logged in\n"},
	}
	got := m.Apply(files)

	assert.Contains(t, got[0].Content, "/home/jsmith/bin")
	assert.Contains(t, got[1].Content, "User: jsmith logged in")
}

func TestApplyHostname(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyHostname, "build-42")

	files := []types.FileSpec{
		{Content: "deploy@old-host run finished\n"},
	}
	got := m.Apply(files)
	assert.Contains(t, got[0].Content, "@build-42 run finished")
}

func TestApplyIPFirstOccurrencePerFile(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyIP, "192.168.7.7")

	files := []types.FileSpec{
		{Content: "primary=192.168.1.1\nsecondary=192.168.2.2\n"},
		{Content: "host=192.168.3.3\n"},
	}
	got := m.Apply(files)

	assert.Contains(t, got[0].Content, "primary=192.168.7.7")
	assert.Contains(t, got[0].Content, "secondary=192.168.2.2")
	assert.Contains(t, got[1].Content, "host=192.168.7.7")
}

func TestApplyLeavesOtherRangesAlone(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyIP, "192.168.7.7")

	files := []types.FileSpec{{Content: "a=10.0.0.5 b=172.16.0.9\n"}}
	got := m.Apply(files)
	assert.Equal(t, "a=10.0.0.5 b=172.16.0.9\n", got[0].Content)
}

func TestApplyDefaults(t *testing.T) {
	m := NewManager(nil)
	files := []types.FileSpec{
		{Content: "path /home/whoever/src, User: whoever, login@somewhere now, ip 192.168.50.50\n"},
	}
	got := m.Apply(files)

	assert.Contains(t, got[0].Content, "/home/developer/src")
	assert.Contains(t, got[0].Content, "User: developer")
	assert.Contains(t, got[0].Content, "@dev-server-01 now")
	assert.Contains(t, got[0].Content, "192.168.1.100")
}

func TestApplyIdempotent(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyUsername, "jsmith")
	m.Set(KeyHostname, "build-42")
	m.Set(KeyIP, "192.168.7.7")

	files := []types.FileSpec{
		{Content: "cd /home/alice/src\nssh deploy@web-01 uptime\naddr 192.168.9.9 and 192.168.8.8\n"},
	}
	once := m.Apply(files)
	twice := m.Apply(once)
	require.Equal(t, once, twice)
}

func TestApplyConvergesAcrossFiles(t *testing.T) {
	m := NewManager(nil)
	m.Randomize()

	files := []types.FileSpec{
		{Content: "workdir /home/alice/app\n"},
		{Content: "workdir /home/bob/app\n"},
	}
	got := m.Apply(files)
	assert.Equal(t, got[0].Content, got[1].Content)
}

func TestRandomizeKeepsExplicitValues(t *testing.T) {
	m := NewManager(nil)
	m.Set(KeyUsername, "pinned")
	m.Randomize()

	assert.Equal(t, "pinned", m.Get(KeyUsername, ""))
	assert.NotEmpty(t, m.Get(KeyHostname, ""))
	assert.Regexp(t, `^192\.168\.\d+\.\d+$`, m.Get(KeyIP, ""))
}

func TestGetDefault(t *testing.T) {
	m := NewManager(nil)
	assert.Equal(t, "fallback", m.Get("unset", "fallback"))
	m.Set("custom", "value")
	assert.Equal(t, "value", m.Get("custom", "fallback"))
}
