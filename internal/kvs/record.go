package kvs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// Records are encoded as self-delimiting JSON objects, one per record, with
// no separator between them. A streaming decoder built on [json.Decoder]
// yields them in order and exposes the input byte offset after each one via
// [json.Decoder.InputOffset], which is exactly the cursor the index needs to
// compute (offset, length) pairs.
//
// Wire shape, externally tagged on the operation name:
//
//	{"Set":{"key":"a","value":"1"}}
//	{"Rm":{"key":"a"}}
//
// A third, legacy shape "Get" may appear in historical logs:
//
//	{"Get":{"key":"a"}}
//
// It is tolerated on replay and ignored; new writes never emit it.

type setFields struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type keyFields struct {
	Key string `json:"key"`
}

// wireRecord is the on-disk shape of a single record. Exactly one field is
// populated per record.
type wireRecord struct {
	Set *setFields `json:"Set,omitempty"`
	Rm  *keyFields `json:"Rm,omitempty"`
	Get *keyFields `json:"Get,omitempty"`
}

// recordKind identifies the decoded operation.
type recordKind int

const (
	kindSet recordKind = iota
	kindRemove
	kindLegacyGet
)

// record is a decoded log entry in a form convenient for replay and get.
type record struct {
	Kind  recordKind
	Key   string
	Value string
}

// encodeSet returns the encoded bytes of a Set record.
func encodeSet(key, value string) ([]byte, error) {
	if !utf8.ValidString(key) || !utf8.ValidString(value) {
		return nil, ErrBadUTF8
	}

	return json.Marshal(wireRecord{Set: &setFields{Key: key, Value: value}})
}

// encodeRemove returns the encoded bytes of a Remove (tombstone) record.
func encodeRemove(key string) ([]byte, error) {
	if !utf8.ValidString(key) {
		return nil, ErrBadUTF8
	}

	return json.Marshal(wireRecord{Rm: &keyFields{Key: key}})
}

// recordDecoder streams records out of r, tracking the byte offset in the
// underlying stream before and after each one.
type recordDecoder struct {
	dec *json.Decoder
}

func newRecordDecoder(r io.Reader) *recordDecoder {
	return &recordDecoder{dec: json.NewDecoder(r)}
}

// offset reports the decoder's current position in the input stream: the
// byte immediately after the most recently decoded record, and the byte
// immediately before the next one.
func (d *recordDecoder) offset() int64 {
	return d.dec.InputOffset()
}

// next decodes the next record. It returns io.EOF when the stream is
// exhausted with no trailing garbage. Any other decode error is reported as
// ErrBadFormat, per the requirement that trailing garbage or malformed bytes
// be rejected distinctly from a clean end of stream.
func (d *recordDecoder) next() (record, error) {
	var wire wireRecord

	if err := d.dec.Decode(&wire); err != nil {
		if err == io.EOF {
			return record{}, io.EOF
		}

		return record{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	return wireToRecord(wire)
}

func wireToRecord(wire wireRecord) (record, error) {
	switch {
	case wire.Set != nil:
		return record{Kind: kindSet, Key: wire.Set.Key, Value: wire.Set.Value}, nil
	case wire.Rm != nil:
		return record{Kind: kindRemove, Key: wire.Rm.Key}, nil
	case wire.Get != nil:
		return record{Kind: kindLegacyGet, Key: wire.Get.Key}, nil
	default:
		return record{}, fmt.Errorf("%w: record has no recognized tag", ErrBadFormat)
	}
}

// decodeSingle decodes exactly one record from buf and fails if anything
// beyond it remains. Used by the read path to turn a (offset, length) slice
// of the log back into a record, and to detect a non-Set hit as BadFormat.
func decodeSingle(buf []byte) (record, error) {
	dec := json.NewDecoder(bytes.NewReader(buf))

	var wire wireRecord
	if err := dec.Decode(&wire); err != nil {
		return record{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return record{}, fmt.Errorf("%w: trailing data after record", ErrBadFormat)
	}

	return wireToRecord(wire)
}
