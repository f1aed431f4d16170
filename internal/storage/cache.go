package storage

import (
	"encoding/binary"
	"hash/crc32"
)

// Complication cache entries are framed with a CRC32 checksum so a corrupt
// entry can be detected and isolated as a miss for that slot alone.
const cacheHeaderLen = 4

// EncodeCacheEntry frames a payload with its checksum.
func EncodeCacheEntry(payload []byte) []byte {
	out := make([]byte, cacheHeaderLen+len(payload))
	binary.BigEndian.PutUint32(out, crc32.ChecksumIEEE(payload))
	copy(out[cacheHeaderLen:], payload)
	return out
}

// DecodeCacheEntry unframes an entry. ok is false when the entry is truncated
// or fails its checksum; callers treat that as a cache miss.
func DecodeCacheEntry(entry []byte) (payload []byte, ok bool) {
	if len(entry) < cacheHeaderLen {
		return nil, false
	}
	want := binary.BigEndian.Uint32(entry)
	payload = entry[cacheHeaderLen:]
	if crc32.ChecksumIEEE(payload) != want {
		return nil, false
	}
	return payload, true
}
