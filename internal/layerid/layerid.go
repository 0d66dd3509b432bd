// Package layerid computes the stable 32-bit LayerId a layer name hashes to,
// used both by the action builder (to stamp a SwitchTo/Temporary target) and
// by the layer table (as its map key). Grounded on the teacher's own choice
// of hash/fnv for stable identifiers (internal/config/config.go's
// generateSignatureFromHotkey).
package layerid

import "hash/fnv"

// BaseLayerName is the distinguished layer selected at boot.
const BaseLayerName = "BaseLayer"

// Hash returns the stable LayerId for a layer name.
func Hash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// BaseLayer is the LayerId of the distinguished "BaseLayer" name.
var BaseLayer = Hash(BaseLayerName)
