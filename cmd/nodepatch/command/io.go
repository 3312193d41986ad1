package command

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v4"
	"gopkg.in/yaml.v3"

	"github.com/sanity-io/nodepatch"
	"github.com/sanity-io/nodepatch/internal/canonical"
	"github.com/sanity-io/nodepatch/pkg/nodepatchmsgpack"
)

type format int

const (
	formatJSON format = iota
	formatYAML
	formatMsgpack
)

// formatOf picks a format by file extension. "-" and unknown extensions are
// read as JSON.
func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".msgpack", ".mp":
		return formatMsgpack
	default:
		return formatJSON
	}
}

func readFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return b, errors.Wrap(err, "reading standard input")
	}
	b, err := os.ReadFile(path)
	return b, errors.Wrapf(err, "reading %s", path)
}

func decodeValue(path string, data []byte) (interface{}, error) {
	var v interface{}
	var err error
	switch formatOf(path) {
	case formatYAML:
		err = yaml.Unmarshal(data, &v)
	case formatMsgpack:
		err = msgpack.Unmarshal(data, &v)
	default:
		err = json.Unmarshal(data, &v)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return v, nil
}

// readDocument loads a document as a tree of child-mode objects, arrays
// and leaves.
func readDocument(path string, stdin io.Reader) (nodepatch.Container, error) {
	data, err := readFile(path, stdin)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(path, data)
	if err != nil {
		return nil, err
	}
	if v, err = canonical.Normalize(v); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	root, ok := nodepatch.FromValue(v).(nodepatch.Container)
	if !ok {
		return nil, errors.Errorf("%s: document root must be an object or an array", path)
	}
	return root, nil
}

func readPatch(path string, stdin io.Reader) (nodepatch.Patch, error) {
	data, err := readFile(path, stdin)
	if err != nil {
		return nil, err
	}
	if formatOf(path) == formatMsgpack {
		return nodepatchmsgpack.Unmarshal(data)
	}

	v, err := decodeValue(path, data)
	if err != nil {
		return nil, err
	}
	ops, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("%s: patch must be an array of operations", path)
	}
	var patch nodepatch.Patch
	if err := patch.DecodeJSON(ops); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return patch, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "writing output")
}
