package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys. Every key is a prefix naming the item kind
// followed by a SHA-256 of everything that influences the item.
type Keyer interface {
	// RasterKey identifies the rasterized image of a source.
	RasterKey(sourceHash string, opts RasterKeyOpts) string
	// ArtifactKey identifies one rendered output of a source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// RasterKeyOpts holds the options that change a rasterized image.
type RasterKeyOpts struct {
	PixelWidth    int     `json:"pixel_width"`
	Full          bool    `json:"full,omitempty"`
	TitleFraction float64 `json:"title_fraction,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	PixelWidth    int     `json:"pixel_width"`
	BlockWidth    int     `json:"block_width"`
	BlockHeight   int     `json:"block_height"`
	MinAlpha      uint8   `json:"min_alpha"`
	Mode          string  `json:"mode"`
	Tolerance     int     `json:"tolerance"`
	Palette       int     `json:"palette,omitempty"`
	PaletteMethod string  `json:"palette_method,omitempty"`
	PruneStuds    bool    `json:"prune_studs,omitempty"`
	Full          bool    `json:"full,omitempty"`
	TitleFraction float64 `json:"title_fraction,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RasterKey implements Keyer.
func (DefaultKeyer) RasterKey(sourceHash string, opts RasterKeyOpts) string {
	return hashKey("raster", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// prefixedKeyer puts a namespace in front of another keyer's keys.
type prefixedKeyer struct {
	inner  Keyer
	prefix string
}

// Prefixed namespaces the keys of inner, so several deployments can share
// one Redis database. A nil inner selects DefaultKeyer; an empty prefix
// returns inner unchanged.
func Prefixed(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix == "" {
		return inner
	}
	return prefixedKeyer{inner: inner, prefix: prefix}
}

func (k prefixedKeyer) RasterKey(sourceHash string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(sourceHash, opts)
}

func (k prefixedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}
