package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// Version is the envelope format written by Encode.
const Version = 1

// Errors returned when decoding documents.
var (
	ErrInvalidDocument    = errors.New("invalid document")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Meta describes an envelope. Bare trees decode with a zero Meta.
type Meta struct {
	Version int
	SavedAt time.Time
}

// Encode wraps serialized tree JSON in an envelope.
func Encode(treeJSON []byte, savedAt time.Time) ([]byte, error) {
	if !gjson.ValidBytes(treeJSON) || !gjson.ParseBytes(treeJSON).IsObject() {
		return nil, fmt.Errorf("%w: tree is not a JSON object", ErrInvalidDocument)
	}

	out := []byte(`{}`)
	var err error
	if out, err = sjson.SetBytes(out, "version", Version); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "savedAt", savedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "tree", treeJSON); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode reads an envelope or a bare tree.
func Decode(data []byte) (tree.Tree, Meta, error) {
	raw, meta, err := Unwrap(data)
	if err != nil {
		return tree.Tree{}, Meta{}, err
	}
	t, err := tree.Unmarshal(raw)
	if err != nil {
		return tree.Tree{}, Meta{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return t, meta, nil
}

// Unwrap returns the tree JSON inside data without decoding it.
func Unwrap(data []byte) ([]byte, Meta, error) {
	if !gjson.ValidBytes(data) {
		return nil, Meta{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, Meta{}, fmt.Errorf("%w: not a JSON object", ErrInvalidDocument)
	}

	version := doc.Get("version")
	if !version.Exists() {
		if !doc.Get("instanceId").Exists() {
			return nil, Meta{}, fmt.Errorf("%w: neither an envelope nor a tree", ErrInvalidDocument)
		}
		return data, Meta{}, nil
	}

	if version.Type != gjson.Number || version.Float() != float64(Version) {
		return nil, Meta{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version.Raw)
	}
	body := doc.Get("tree")
	if !body.IsObject() {
		return nil, Meta{}, fmt.Errorf("%w: envelope has no tree", ErrInvalidDocument)
	}

	meta := Meta{Version: Version}
	if saved := doc.Get("savedAt"); saved.Exists() {
		ts, err := time.Parse(time.RFC3339Nano, saved.String())
		if err != nil {
			return nil, Meta{}, fmt.Errorf("%w: savedAt: %v", ErrInvalidDocument, err)
		}
		meta.SavedAt = ts
	}
	return []byte(body.Raw), meta, nil
}
