package voxel

import "math/bits"

// A SliceMap is a Resolution x Resolution grid of texels; each texel holds
// Channels words with ChannelWidth bits each. Bit b of the texel at (x, y)
// is set when depth bucket b at that texel lies inside a solid.
type SliceMap struct {
	Resolution   int
	Buckets      int
	ChannelWidth int
	Channels     int

	// Texel words in row-major order; texel (x, y) starts at
	// (y*Resolution + x) * Channels.
	Words []uint32
}

// Allocate an empty slice map.
func NewSliceMap(resolution, buckets, channelWidth int) *SliceMap {
	channels := ChannelCount(buckets, channelWidth)
	return &SliceMap{
		Resolution:   resolution,
		Buckets:      buckets,
		ChannelWidth: channelWidth,
		Channels:     channels,
		Words:        make([]uint32, resolution*resolution*channels),
	}
}

// Get channel word c of texel (x, y). Out of range lookups return 0.
func (sm *SliceMap) Word(x, y, c int) uint32 {
	if !sm.inside(x, y) || c < 0 || c >= sm.Channels {
		return 0
	}
	return sm.Words[(y*sm.Resolution+x)*sm.Channels+c]
}

// Get all channel words of texel (x, y). The returned slice aliases the map.
func (sm *SliceMap) Texel(x, y int) []uint32 {
	if !sm.inside(x, y) {
		return nil
	}
	offset := (y*sm.Resolution + x) * sm.Channels
	return sm.Words[offset : offset+sm.Channels]
}

// Check whether depth bucket b of texel (x, y) is occupied. Out of range
// lookups report an empty bucket.
func (sm *SliceMap) Occupied(x, y, bucket int) bool {
	if bucket < 0 || bucket >= sm.Buckets {
		return false
	}
	word := sm.Word(x, y, bucket/sm.ChannelWidth)
	return word&(1<<uint(bucket%sm.ChannelWidth)) != 0
}

// List the occupied buckets of texel (x, y) in increasing depth order.
func (sm *SliceMap) OccupiedBuckets(x, y int) []int {
	var out []int
	for b := 0; b < sm.Buckets; b++ {
		if sm.Occupied(x, y, b) {
			out = append(out, b)
		}
	}
	return out
}

// Count occupied voxels.
func (sm *SliceMap) OccupiedCount() int {
	count := 0
	for _, w := range sm.Words {
		count += bits.OnesCount32(w)
	}
	return count
}

// Reset all texels.
func (sm *SliceMap) Clear() {
	for i := range sm.Words {
		sm.Words[i] = 0
	}
}

// Check if no bit is set.
func (sm *SliceMap) IsZero() bool {
	for _, w := range sm.Words {
		if w != 0 {
			return false
		}
	}
	return true
}

// XOR a channel-packed mask into texel (x, y).
func (sm *SliceMap) Toggle(x, y int, mask []uint32) {
	texel := sm.Texel(x, y)
	for c := range texel {
		texel[c] ^= mask[c]
	}
}

func (sm *SliceMap) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < sm.Resolution && y < sm.Resolution
}
