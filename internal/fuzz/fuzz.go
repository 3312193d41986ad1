// Package fuzz holds a go-fuzz harness that checks the patch engine against
// an independent RFC 6902 implementation.
package fuzz

import (
	"bytes"
	"encoding/json"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/sanity-io/nodepatch"
)

// Fuzz reads a document and a patch as two consecutive JSON values. Whenever
// both implementations accept the patch, their results must be equal.
func Fuzz(data []byte) int {
	dec := json.NewDecoder(bytes.NewReader(data))
	var doc interface{}
	var raw json.RawMessage

	if err := dec.Decode(&doc); err != nil {
		return -1
	}
	if err := dec.Decode(&raw); err != nil {
		return -1
	}

	var patch nodepatch.Patch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return -1
	}
	if !agreesOnPointers(patch) {
		return -1
	}

	root, ok := nodepatch.FromValue(doc).(nodepatch.Container)
	if !ok {
		return -1
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return -1
	}

	reference, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return -1
	}
	expected, refErr := reference.Apply(docJSON)
	applyErr := nodepatch.Apply(root, patch)
	if refErr != nil || applyErr != nil {
		return 0
	}

	actual, err := json.Marshal(root.Value())
	if err != nil {
		panic(err)
	}
	if !jsonpatch.Equal(expected, actual) {
		panic("result differs from the reference implementation")
	}
	return 1
}

// agreesOnPointers reports whether every pointer in patch is read the same way
// by both implementations: escaped tokens are taken verbatim here, and the
// root can not be targeted.
func agreesOnPointers(patch nodepatch.Patch) bool {
	for _, op := range patch {
		for _, p := range []string{op.Path, op.From} {
			if strings.Contains(p, "~") {
				return false
			}
		}
		if op.Path == "" || op.Path == "/" {
			return false
		}
	}
	return true
}
