package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gchempaint/arrange"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setup resets the global flags and writes a document with a mesomery
// that is not aligned, a cyclic retrosynthesis, and, when parts is set, a
// mesomery made of two unconnected pairs.
func setup(t *testing.T, parts bool) string {
	t.Helper()
	logger = zap.NewNop()
	configPath, outPath, split = "", "", false

	d := arrange.NewDocument()
	add := func(names []string, x, y float64) []arrange.NodeID {
		var ids []arrange.NodeID
		for i, name := range names {
			r := arrange.Rect{X0: x + float64(i)*100, Y0: y, X1: x + float64(i)*100 + 20, Y1: y + 20}
			ids = append(ids, d.AddNode(name, r.Center(), r))
		}
		return ids
	}
	arrow := func(name string, kind arrange.ArrowKind, a, b arrange.NodeID) arrange.ArrowID {
		p0 := d.Node(a).Bounds.Exit(d.Node(b).Bounds.Center().Sub(d.Node(a).Bounds.Center()), 8)
		p1 := d.Node(b).Bounds.Exit(d.Node(a).Bounds.Center().Sub(d.Node(b).Bounds.Center()), 8)
		id, err := d.AddArrow(name, kind, a, b, p0, p1)
		require.NoError(t, err)
		return id
	}

	m := d.NewRelationship(arrange.Mesomery, "good")
	ms := add([]string{"A", "B"}, 0, 0)
	ab := arrow("ab", arrange.ArrowMesomery, ms[0], ms[1])
	// Move B away from the end of the arrow.
	d.MoveNode(ms[1], arrange.Vec(150, 40))
	require.NoError(t, m.Add(ms, []arrange.ArrowID{ab}))

	r := d.NewRelationship(arrange.Retrosynthesis, "loop")
	rs := add([]string{"P", "Q", "S"}, 0, 500)
	require.NoError(t, r.Add(rs, []arrange.ArrowID{
		arrow("pq", arrange.ArrowRetrosynthesis, rs[0], rs[1]),
		arrow("qs", arrange.ArrowRetrosynthesis, rs[1], rs[2]),
		arrow("sp", arrange.ArrowRetrosynthesis, rs[2], rs[0]),
	}))

	if parts {
		p := d.NewRelationship(arrange.Mesomery, "parts")
		ps := add([]string{"C", "D", "E", "F"}, 0, 1000)
		require.NoError(t, p.Add(ps, []arrange.ArrowID{
			arrow("cd", arrange.ArrowMesomery, ps[0], ps[1]),
			arrow("ef", arrange.ArrowMesomery, ps[2], ps[3]),
		}))
	}

	path := filepath.Join(t.TempDir(), "doc.xml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, d.Save(f, arrange.NewSerialContext()))
	require.NoError(t, f.Close())
	return path
}

func load(t *testing.T, path string) (*arrange.Document, *arrange.SerialContext) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ctx := arrange.NewSerialContext()
	d, err := arrange.Load(f, ctx)
	require.NoError(t, err)
	return d, ctx
}

func TestValidateCmd(t *testing.T) {
	path := setup(t, true)
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := runValidate(cmd, []string{path})
	require.Error(t, err)
	assert.Equal(t, "2 invalid relationships", err.Error())
	assert.Contains(t, out.String(), "good\tmesomery\tok\n")
	assert.Contains(t, out.String(), "loop\tretrosynthesis\tcyclic\n")
	assert.Contains(t, out.String(), "parts\tmesomery\tincomplete\n")
	// Offending objects are named.
	assert.Contains(t, out.String(), "[E F ef]")
}

func TestValidateCmdSplit(t *testing.T) {
	path := setup(t, true)
	split = true
	outPath = filepath.Join(t.TempDir(), "fixed.xml")
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	// The cycle cannot be repaired.
	err := runValidate(cmd, []string{path})
	require.Error(t, err)
	assert.Equal(t, "1 invalid relationships", err.Error())
	// good, parts and the part split off parts.
	assert.Equal(t, 3, strings.Count(out.String(), "\tmesomery\tok\n"))

	d, ctx := load(t, outPath)
	assert.Len(t, d.Relationships(), 4)
	c, ok := ctx.NodeByName("C")
	require.True(t, ok)
	e, ok := ctx.NodeByName("E")
	require.True(t, ok)
	rc, _ := d.Node(c).Relationship()
	re, _ := d.Node(e).Relationship()
	assert.NotEqual(t, rc, re)
}

func TestAlignCmd(t *testing.T) {
	path := setup(t, false)
	outPath = filepath.Join(t.TempDir(), "aligned.xml")
	cmd := &cobra.Command{}

	// The retrosynthesis is cyclic, so nothing is written.
	err := runAlign(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop: cyclic")
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAlignCmdWritesDocument(t *testing.T) {
	path := setup(t, false)
	d, ctx := load(t, path)
	for _, r := range d.Relationships() {
		if r.Name == "loop" {
			r.Destroy()
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, d.Save(f, ctx))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runAlign(cmd, []string{path}))

	aligned, ctx := loadBytes(t, out.Bytes())
	b, ok := ctx.NodeByName("B")
	require.True(t, ok)
	ab, ok := ctx.ArrowByName("ab")
	require.True(t, ok)
	got := aligned.Node(b).Bounds
	assert.InDelta(t, 100, got.X0, 1e-6)
	assert.InDelta(t, 0, got.Y0, 1e-6)
	assert.InDelta(t, 28, aligned.Arrow(ab).P0.X, 1e-6)
	assert.InDelta(t, 92, aligned.Arrow(ab).P1.X, 1e-6)
}

func TestAlignCmdConfig(t *testing.T) {
	path := setup(t, false)
	configPath = filepath.Join(t.TempDir(), "arrange.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("zoom: 0\n"), 0o644))

	err := runAlign(&cobra.Command{}, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func loadBytes(t *testing.T, data []byte) (*arrange.Document, *arrange.SerialContext) {
	t.Helper()
	ctx := arrange.NewSerialContext()
	d, err := arrange.Load(bytes.NewReader(data), ctx)
	require.NoError(t, err)
	return d, ctx
}
