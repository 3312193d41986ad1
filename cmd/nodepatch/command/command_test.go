package command_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanity-io/nodepatch"
	"github.com/sanity-io/nodepatch/cmd/nodepatch/command"
	"github.com/sanity-io/nodepatch/pkg/nodepatchmsgpack"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := command.NewCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestApply(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"title": "a", "items": [1, 2]}`)
	patch := writeFile(t, "patch.json", `[
		{"op": "replace", "path": "/title", "value": "b"},
		{"op": "add", "path": "/items/-", "value": 3},
		{"op": "move", "from": "/items/0", "path": "/first"}
	]`)

	stdout, _, err := run(t, "apply", doc, patch)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"title": "b",
		"items": []interface{}{2.0, 3.0},
		"first": 1.0,
	}, decode(t, stdout))
}

func TestApplyYAML(t *testing.T) {
	doc := writeFile(t, "doc.yaml", "title: a\ntags: [x]\n")
	patch := writeFile(t, "patch.yml", "- op: add\n  path: /tags/0\n  value: w\n- op: test\n  path: /title\n  value: a\n")

	stdout, _, err := run(t, "apply", doc, patch)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"title": "a",
		"tags":  []interface{}{"w", "x"},
	}, decode(t, stdout))
}

func TestApplyFailurePrintsDetail(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"items": [1, 2]}`)
	patch := writeFile(t, "patch.json", `[{"op": "remove", "path": "/items/5"}]`)

	stdout, stderr, err := run(t, "apply", doc, patch)
	require.Error(t, err)
	require.ErrorIs(t, err, nodepatch.IndexOutOfRange)
	require.Empty(t, stdout)

	detail := decode(t, stderr).(map[string]interface{})
	require.Equal(t, "IndexOutOfRange", detail["kind"])
	require.Equal(t, "/items/5", detail["path"])
	require.Equal(t, "5", detail["token"])
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.json", `[{"op": "remove", "path": "/a"}]`)
	stdout, _, err := run(t, "validate", good)
	require.NoError(t, err)
	require.Contains(t, stdout, "1 operations ok")

	bad := writeFile(t, "bad.json", `[
		{"op": "frobnicate", "path": "/a"},
		{"op": "move", "path": "/b"}
	]`)
	_, stderr, err := run(t, "validate", bad)
	require.Error(t, err)
	require.Contains(t, stderr, "UnsupportedOperation")
	require.Contains(t, stderr, "MalformedPath")
}

func TestGet(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"a": {"b": [true, "x"]}}`)

	stdout, _, err := run(t, "get", doc, "/a/b/1")
	require.NoError(t, err)
	require.Equal(t, "x", decode(t, stdout))

	_, stderr, err := run(t, "get", doc, "/a/c")
	require.ErrorIs(t, err, nodepatch.UnresolvableSegment)
	require.Contains(t, stderr, `"available"`)
}

func TestEncodeMsgpack(t *testing.T) {
	patch := writeFile(t, "patch.json", `[{"op": "copy", "from": "/a", "path": "/b"}]`)

	stdout, _, err := run(t, "encode", patch, "--to", "msgpack")
	require.NoError(t, err)

	decoded, err := nodepatchmsgpack.Unmarshal([]byte(stdout))
	require.NoError(t, err)
	require.Equal(t, nodepatch.Patch{{Op: nodepatch.OpCopy, From: "/a", Path: "/b"}}, decoded)

	mp := writeFile(t, "patch.msgpack", stdout)
	out, _, err := run(t, "encode", mp, "--to", "json")
	require.NoError(t, err)
	require.Equal(t, []interface{}{
		map[string]interface{}{"op": "copy", "from": "/a", "path": "/b"},
	}, decode(t, out))
}

func TestEncodeUnknownFormat(t *testing.T) {
	patch := writeFile(t, "patch.json", `[]`)
	_, stderr, err := run(t, "encode", patch, "--to", "xml")
	require.Error(t, err)
	require.Contains(t, stderr, "unknown output format")
}
