package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// LayoutKeyOpts are the layout inputs that change the result besides the
// items themselves.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Capacities []int   `json:"capacities,omitempty"`
	Overflow   int     `json:"overflow,omitempty"`
}

// ArtifactKeyOpts are the render inputs that change an artifact besides
// the layout.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Style      string `json:"style,omitempty"`
	ShowPinyin bool   `json:"show_pinyin,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the items hashed to itemsHash.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from the layout
	// hashed to layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), layoutHash, opts)
}

// Hash returns the hex SHA-256 of data. The pipeline keys layouts by the
// hash of their items and artifacts by the hash of their layout.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix + ":" + the SHA-256 of parts encoded as JSON
// values, one per line.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
