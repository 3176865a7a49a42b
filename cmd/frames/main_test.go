package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// Run the app with args, returning the exit code and anything written to
// standard output
func runApp(t *testing.T, args ...string) (int, string) {
	t.Helper()

	code := 0
	exiter, errWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(c int) { code = c }
	cli.ErrWriter = ioutil.Discard
	defer func() {
		cli.OsExiter, cli.ErrWriter = exiter, errWriter
	}()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	if err := app.Run(append([]string{"frames"}, args...)); err != nil && code == 0 {
		code = 1
	}

	return code, out.String()
}

func writeSheet(t *testing.T, file string) {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, 1500, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 1500; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "sheet.png")
	output := filepath.Join(dir, "frames")
	writeSheet(t, source)

	code, out := runApp(t, "--source", source, "--output", output)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "walk-6.png")

	files, err := ioutil.ReadDir(output)
	require.NoError(t, err)
	assert.Len(t, files, 12)
}

func TestExtractQuiet(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "sheet.png")
	writeSheet(t, source)

	code, out := runApp(t, "--quiet", "--source", source, "--output", filepath.Join(dir, "frames"), "extract")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestExtractSourceNotFound(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "frames")

	code, _ := runApp(t, "--source", filepath.Join(dir, "missing.png"), "--output", output)
	assert.Equal(t, 1, code)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestExtractDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "sheet.png")
	output := filepath.Join(dir, "frames")
	require.NoError(t, ioutil.WriteFile(source, nil, 0o644))

	code, _ := runApp(t, "--source", source, "--output", output)
	assert.Equal(t, 1, code)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestExtractInvalidFlags(t *testing.T) {
	dir := t.TempDir()

	code, _ := runApp(t, "--size", "0", "--output", filepath.Join(dir, "frames"))
	assert.Equal(t, 1, code)
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "frames")

	code, out := runApp(t, "--source", filepath.Join(dir, "missing.png"), "--output", output, "plan")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "walk-3.png")
	assert.Contains(t, out, "idle-3.png")
	assert.Contains(t, out, "(512,0)-(768,384)")

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}
