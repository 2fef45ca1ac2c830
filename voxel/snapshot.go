package voxel

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

var (
	snapshotMagic = []byte("VAOSLICE")

	ErrNotASnapshot = errors.New("voxel: stream is not a slice map snapshot")
)

const snapshotVersion uint8 = 1

// Write a zstd compressed snapshot of a slice map.
func WriteSnapshot(w io.Writer, sm *SliceMap) error {
	if _, err := w.Write(append(append([]byte(nil), snapshotMagic...), snapshotVersion)); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	if err = gob.NewEncoder(zw).Encode(sm); err != nil {
		zw.Close()
		return fmt.Errorf("voxel: could not encode slice map snapshot: %s", err)
	}

	return zw.Close()
}

// Read a slice map snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*SliceMap, error) {
	header := make([]byte, len(snapshotMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, ErrNotASnapshot
	}
	if !bytes.Equal(header[:len(snapshotMagic)], snapshotMagic) {
		return nil, ErrNotASnapshot
	}
	if version := header[len(snapshotMagic)]; version != snapshotVersion {
		return nil, fmt.Errorf("voxel: unsupported snapshot version %d", version)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	sm := &SliceMap{}
	if err = gob.NewDecoder(zr).Decode(sm); err != nil {
		return nil, fmt.Errorf("voxel: could not decode slice map snapshot: %s", err)
	}

	if err = ValidateLayout(sm.Buckets, sm.ChannelWidth); err != nil {
		return nil, err
	}
	if sm.Resolution <= 0 || sm.Channels != ChannelCount(sm.Buckets, sm.ChannelWidth) ||
		len(sm.Words) != sm.Resolution*sm.Resolution*sm.Channels {
		return nil, fmt.Errorf("voxel: corrupted slice map snapshot")
	}

	return sm, nil
}
