// Package loader reads topic documents from disk and watches them for
// changes.
package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// ErrEmptyDocument is returned for a document that decodes to no topics.
var ErrEmptyDocument = errors.New("document contains no topics")

// Result is the outcome of a fail-soft load.
type Result struct {
	Path   string
	Topics model.Topics
	Hash   string
	Err    error
}

// OK reports whether the load succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Load reads path and never panics. On failure Topics is an empty registry and
// Err explains why.
func Load(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Topics: model.Topics{}, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	topics, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Result{Path: path, Topics: model.Topics{}, Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	return Result{Path: path, Topics: topics, Hash: ContentHash(data)}
}

// LoadTopics reads and validates the document at path.
func LoadTopics(path string) (model.Topics, error) {
	res := Load(path)
	return res.Topics, res.Err
}

// Decode parses and validates a topic document: a JSON object mapping topic
// keys to tree roots.
func Decode(r io.Reader) (model.Topics, error) {
	var topics model.Topics
	dec := json.NewDecoder(r)
	if err := dec.Decode(&topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	if len(topics) == 0 {
		return nil, ErrEmptyDocument
	}
	for _, key := range topics.Keys() {
		if topics[key] == nil {
			return nil, fmt.Errorf("topic %q: tree root is missing", key)
		}
	}
	if err := topics.Validate(); err != nil {
		return nil, err
	}
	return topics, nil
}

// ContentHash returns the hex SHA-256 of a document, used to skip reloads
// whose content did not change.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashPrefix shortens a hash for log lines.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
