// Package nodepatchmsgpack encodes patches with MessagePack.
//
// A patch is a flat stream with no array header: every operation is a uint8
// code followed by its path string, then the from string for move and copy
// or the value for add, replace and test. Values are encoded as regular
// msgpack values, so they decode to the plain JSON types nodepatch accepts.
package nodepatchmsgpack

import (
	"github.com/pkg/errors"
	"github.com/sanity-io/nodepatch"
	"github.com/vmihailenco/msgpack/v4"
)

// MsgpackPatch is an alias for nodepatch.Patch which implements CustomEncoder/CustomDecoder.
// You should only use this if you need to embed a patch inside a larger msgpack structure.
// Otherwise it's preferred to use the Marshal and Unmarshal functions.
type MsgpackPatch nodepatch.Patch

var _ msgpack.CustomEncoder = (*MsgpackPatch)(nil)
var _ msgpack.CustomDecoder = (*MsgpackPatch)(nil)

// Marshal encodes a patch using Msgpack.
func Marshal(patch nodepatch.Patch) ([]byte, error) {
	mppatch := MsgpackPatch(patch)
	return msgpack.Marshal(&mppatch)
}

// Unmarshal decodes a patch using Msgpack.
func Unmarshal(data []byte) (nodepatch.Patch, error) {
	var mppatch MsgpackPatch
	if err := msgpack.Unmarshal(data, &mppatch); err != nil {
		return nil, errors.Wrap(err, "decoding msgpack patch")
	}
	return nodepatch.Patch(mppatch), nil
}

type writer struct {
	*msgpack.Encoder
}

func (w writer) WriteUint8(v uint8) error {
	return w.EncodeUint8(v)
}

func (w writer) WriteString(v string) error {
	return w.EncodeString(v)
}

func (w writer) WriteValue(v interface{}) error {
	return w.Encode(v)
}

func (patch *MsgpackPatch) EncodeMsgpack(enc *msgpack.Encoder) error {
	return nodepatch.Patch(*patch).WriteTo(writer{enc})
}

type reader struct {
	*msgpack.Decoder
}

func (r reader) ReadUint8() (uint8, error) {
	return r.DecodeUint8()
}

func (r reader) ReadString() (string, error) {
	return r.DecodeString()
}

func (r reader) ReadValue() (interface{}, error) {
	var result interface{}
	err := r.Decode(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (patch *MsgpackPatch) DecodeMsgpack(dec *msgpack.Decoder) error {
	var decoded nodepatch.Patch
	if err := decoded.ReadFrom(reader{dec}); err != nil {
		return err
	}
	*patch = append(*patch, decoded...)
	return nil
}
