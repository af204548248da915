package voxel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var volumeMagic = [4]byte{'V', 'T', 'U', 'V'}

const volumeVersion = 1

// ErrBadVolumeFile is returned when a volume file cannot be decoded.
var ErrBadVolumeFile = errors.New("voxel: malformed volume file")

type volumeHeader struct {
	Magic   [4]byte
	Version uint8
	_       uint8
	Radius  uint16
}

// SaveVolume writes v as a zstd-compressed stream: a fixed header followed by
// one byte per cell in index order.
func SaveVolume(w io.Writer, v *Volume) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("voxel: creating encoder: %w", err)
	}

	hdr := volumeHeader{
		Magic:   volumeMagic,
		Version: volumeVersion,
		Radius:  uint16(v.radius),
	}

	if err := binary.Write(enc, binary.LittleEndian, hdr); err != nil {
		enc.Close()
		return fmt.Errorf("voxel: writing header: %w", err)
	}

	if _, err := enc.Write(blocksAsBytes(v.blocks)); err != nil {
		enc.Close()
		return fmt.Errorf("voxel: writing blocks: %w", err)
	}

	return enc.Close()
}

// LoadVolume reads a volume written by SaveVolume.
func LoadVolume(r io.Reader) (*Volume, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("voxel: creating decoder: %w", err)
	}
	defer dec.Close()

	var hdr volumeHeader
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeFile, err)
	}

	if hdr.Magic != volumeMagic || hdr.Version != volumeVersion {
		return nil, fmt.Errorf("%w: bad magic or version", ErrBadVolumeFile)
	}

	v, err := NewVolume(int(hdr.Radius))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolumeFile, err)
	}

	if err := readBlocks(dec, v); err != nil {
		return nil, err
	}

	return v, nil
}

// LoadRawChunk reads an uncompressed dump of side³ block ids, x varying
// fastest and centred on the origin. Unknown ids read as Air.
func LoadRawChunk(r io.Reader, side int) (*Volume, error) {
	if side%2 != 0 {
		return nil, fmt.Errorf("voxel: chunk side %d is not even", side)
	}

	v, err := NewVolume(side / 2)
	if err != nil {
		return nil, err
	}

	if err := readBlocks(r, v); err != nil {
		return nil, err
	}

	return v, nil
}

// SaveVolumeFile writes v to a file.
func SaveVolumeFile(path string, v *Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := SaveVolume(f, v); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// LoadVolumeFile reads a volume from a file.
func LoadVolumeFile(path string) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadVolume(f)
}

func readBlocks(r io.Reader, v *Volume) error {
	buf := make([]byte, len(v.blocks))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrBadVolumeFile, err)
	}

	for i, b := range buf {
		blk := Block(b)
		if !blk.Valid() {
			blk = Air
		}

		v.blocks[i] = blk
	}

	v.rebuildSolidIndex()

	return nil
}

func blocksAsBytes(blocks []Block) []byte {
	buf := make([]byte, len(blocks))
	for i, b := range blocks {
		buf[i] = byte(b)
	}

	return buf
}
