package sword

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/FocuswithJustin/JuniperFootnotes/core/cache"
	"github.com/FocuswithJustin/JuniperFootnotes/core/errors"
)

// zText data files per testament:
//   - .bzs block index, 12 bytes per entry: offset, compressed size, size
//   - .bzv verse index, 10 bytes per entry: block, offset, size (uint16)
//   - .bzz concatenated zlib blocks
const (
	blockEntrySize = 12
	verseEntrySize = 10

	// blockCacheSize is the number of decompressed blocks kept per volume.
	blockCacheSize = 4
)

type blockEntry struct {
	Offset         uint32
	CompressedSize uint32
	Size           uint32
}

type verseEntry struct {
	Block  uint32
	Offset uint32
	Size   uint16
}

// zTextVolume is one testament of a zText module held in memory.
type zTextVolume struct {
	name   string
	blocks []blockEntry
	verses []verseEntry
	data   []byte
	cache  *cache.LRU[uint32, []byte]
}

// openVolume loads prefix.bzs, prefix.bzv and prefix.bzz from dir. A missing
// testament returns nil without error.
func openVolume(fsys fs.FS, dir, prefix string) (*zTextVolume, error) {
	bzs, err := fs.ReadFile(fsys, path.Join(dir, prefix+".bzs"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	bzv, err := fs.ReadFile(fsys, path.Join(dir, prefix+".bzv"))
	if err != nil {
		return nil, err
	}
	bzz, err := fs.ReadFile(fsys, path.Join(dir, prefix+".bzz"))
	if err != nil {
		return nil, err
	}

	v := &zTextVolume{name: prefix, data: bzz, cache: cache.New[uint32, []byte](blockCacheSize)}
	for off := 0; off+blockEntrySize <= len(bzs); off += blockEntrySize {
		v.blocks = append(v.blocks, blockEntry{
			Offset:         binary.LittleEndian.Uint32(bzs[off:]),
			CompressedSize: binary.LittleEndian.Uint32(bzs[off+4:]),
			Size:           binary.LittleEndian.Uint32(bzs[off+8:]),
		})
	}
	for off := 0; off+verseEntrySize <= len(bzv); off += verseEntrySize {
		v.verses = append(v.verses, verseEntry{
			Block:  binary.LittleEndian.Uint32(bzv[off:]),
			Offset: binary.LittleEndian.Uint32(bzv[off+4:]),
			Size:   binary.LittleEndian.Uint16(bzv[off+8:]),
		})
	}
	return v, nil
}

// verse returns the raw markup at index. Indexes past the end of the verse
// index and zero-length entries are empty verses.
func (v *zTextVolume) verse(index int) (string, error) {
	if index < 0 || index >= len(v.verses) {
		return "", nil
	}
	e := v.verses[index]
	if e.Size == 0 {
		return "", nil
	}

	block, err := v.block(e.Block)
	if err != nil {
		return "", err
	}
	end := int(e.Offset) + int(e.Size)
	if end > len(block) {
		return "", fmt.Errorf("%s: verse %d overruns block %d", v.name, index, e.Block)
	}
	return string(block[e.Offset:end]), nil
}

// block decompresses block n. Recently used blocks are cached.
func (v *zTextVolume) block(n uint32) ([]byte, error) {
	if b, ok := v.cache.Get(n); ok {
		return b, nil
	}
	if int(n) >= len(v.blocks) {
		return nil, fmt.Errorf("%s: block %d out of range", v.name, n)
	}
	b := v.blocks[n]
	end := uint64(b.Offset) + uint64(b.CompressedSize)
	if end > uint64(len(v.data)) {
		return nil, fmt.Errorf("%s: block %d overruns data file", v.name, n)
	}

	r, err := zlib.NewReader(bytes.NewReader(v.data[b.Offset:end]))
	if err != nil {
		return nil, fmt.Errorf("%s: block %d: %w", v.name, n, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: block %d: %w", v.name, n, err)
	}

	v.cache.Put(n, out)
	return out, nil
}
