// Package voxel encodes solid occupancy into slice maps: bit-packed 2D
// grids where every bit of a texel stands for one depth bucket along the
// voxelization axis.
package voxel

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// Channel words are stored as uint32 values.
	MaxChannelWidth = 32

	// Two RGBA32UI render target attachments.
	MaxChannels = 8
)

var (
	ErrInvalidBucketCount  = errors.New("voxel: bucket count must be positive")
	ErrInvalidChannelWidth = fmt.Errorf("voxel: channel width must be in [1, %d]", MaxChannelWidth)
	ErrTooManyChannels     = fmt.Errorf("voxel: bucket layout requires more than %d channels", MaxChannels)
)

// A DepthMaskTable maps a depth bucket i to the channel-packed bitmask of all
// buckets strictly shallower than i. XOR-ing entry i for every surface
// crossing at bucket i leaves the buckets between an entry and an exit
// crossing set. One extra entry at index Buckets() holds every bucket; it is
// used for crossings at or below the floor of the volume. Tables are
// immutable once built.
type DepthMaskTable struct {
	buckets      int
	channelWidth int
	channels     int

	// (buckets+1) * channels words; entry i starts at i*channels.
	words []uint32
}

// Check that a bucket/channel layout can be encoded.
func ValidateLayout(buckets, channelWidth int) error {
	if buckets <= 0 {
		return ErrInvalidBucketCount
	}
	if channelWidth <= 0 || channelWidth > MaxChannelWidth {
		return ErrInvalidChannelWidth
	}
	if ChannelCount(buckets, channelWidth) > MaxChannels {
		return ErrTooManyChannels
	}
	return nil
}

// Get the number of channel words needed for a bucket layout.
func ChannelCount(buckets, channelWidth int) int {
	return (buckets + channelWidth - 1) / channelWidth
}

// Build the depth mask table for the given bucket count and channel width.
func BuildDepthMaskTable(buckets, channelWidth int) (*DepthMaskTable, error) {
	if err := ValidateLayout(buckets, channelWidth); err != nil {
		return nil, err
	}

	t := &DepthMaskTable{
		buckets:      buckets,
		channelWidth: channelWidth,
		channels:     ChannelCount(buckets, channelWidth),
	}
	t.words = make([]uint32, (buckets+1)*t.channels)

	for i := 0; i <= buckets; i++ {
		entry := t.words[i*t.channels : (i+1)*t.channels]
		for j := 0; j < i; j++ {
			entry[j/channelWidth] |= 1 << uint(j%channelWidth)
		}
	}

	return t, nil
}

// Get the number of depth buckets.
func (t *DepthMaskTable) Buckets() int {
	return t.buckets
}

// Get the number of bits used in each channel word.
func (t *DepthMaskTable) ChannelWidth() int {
	return t.channelWidth
}

// Get the number of channel words per entry.
func (t *DepthMaskTable) Channels() int {
	return t.channels
}

// Get a copy of the channel words for entry i in [0, Buckets()].
func (t *DepthMaskTable) Entry(i int) []uint32 {
	return append([]uint32(nil), t.entry(i)...)
}

// Get a copy of the whole table, one entry after another. This is the
// layout uploaded to the lookup texture.
func (t *DepthMaskTable) Words() []uint32 {
	return append([]uint32(nil), t.words...)
}

// Count the set bits of entry i across all channels.
func (t *DepthMaskTable) BitCount(i int) int {
	count := 0
	for _, w := range t.entry(i) {
		count += bits.OnesCount32(w)
	}
	return count
}

// Map a normalized depth in [0, 1] to a bucket index. Depths past the far
// end are clamped to the last bucket.
func (t *DepthMaskTable) Bucket(depth float32) int {
	return BucketFor(depth, t.buckets)
}

// Index of the entry that sets every bucket.
func (t *DepthMaskTable) FullEntry() int {
	return t.buckets
}

// Select the entry toggled by a surface crossing at the given depth. A
// crossing at or below the floor covers the whole column.
func (t *DepthMaskTable) CrossingEntry(depth float32) int {
	if depth >= 1 {
		return t.buckets
	}
	return t.Bucket(depth)
}

func (t *DepthMaskTable) entry(i int) []uint32 {
	return t.words[i*t.channels : (i+1)*t.channels]
}

// Map a normalized depth to one of n buckets, clamping to [0, n).
func BucketFor(depth float32, n int) int {
	b := int(depth * float32(n))
	if b < 0 {
		return 0
	}
	if b >= n {
		return n - 1
	}
	return b
}
