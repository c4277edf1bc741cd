package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelanot/GameList/internal/testutil"
)

// testCLI runs the command tree against one temporary database. Clock and
// ids are shared across runs so output is deterministic.
type testCLI struct {
	t      *testing.T
	db     string
	config string
	clock  *testutil.StepClock
	ids    *testutil.SequentialIDs
	client *http.Client
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &testCLI{
		t:     t,
		db:    filepath.Join(t.TempDir(), "games.db"),
		clock: testutil.NewStepClock(),
		ids:   testutil.NewSequentialIDs("game"),
	}
}

func (c *testCLI) run(args ...string) (stdout, stderr string, err error) {
	c.t.Helper()
	opts := &RootOptions{Clock: c.clock, IDs: c.ids, HTTPClient: c.client}
	cmd := newRootCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	full := []string{"--db", c.db}
	if c.config != "" {
		full = append(full, "--config", c.config)
	}
	cmd.SetArgs(append(full, args...))

	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, stderr, err := c.run(args...)
	require.NoError(c.t, err, "stderr: %s", stderr)
	return out
}

// runJSON runs with --format json and decodes the response into data.
func (c *testCLI) runJSON(data any, args ...string) (CLIResponse, error) {
	c.t.Helper()
	out, _, err := c.run(append([]string{"--format", "json"}, args...)...)

	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if data != nil && len(raw.Data) > 0 {
		require.NoError(c.t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}, err
}

func (c *testCLI) writeConfig(content string) {
	c.t.Helper()
	path := filepath.Join(c.t.TempDir(), "config.yaml")
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
	c.config = path
}

func writePNG(t *testing.T, w, h int) (string, []byte) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.NRGBA{R: 20, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path, buf.Bytes()
}
