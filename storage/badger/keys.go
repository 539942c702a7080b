package badger

import (
	"encoding/binary"
	"strings"
)

// Key prefixes for different data types
const (
	itemRecordPrefix  = "itrec"
	itemNamePrefix    = "itnam"
	itemKindPrefix    = "itknd"
	itemUsePrefix     = "ituse"
	fingerprintPrefix = "fprec"
)

// makeItemKey generates a key for an item record by path.
func makeItemKey(path string) []byte {
	return []byte(itemRecordPrefix + ":" + path)
}

// makeItemNameKey generates a composite key for the case-insensitive
// name index. Format: prefix:lower(name)\x00path — the NUL terminator
// keeps "git" from colliding with the "github" range.
func makeItemNameKey(name, path string) []byte {
	return []byte(itemNamePrefix + ":" + strings.ToLower(name) + "\x00" + path)
}

// makePartialItemNameKey generates a partial key for name prefix scans.
func makePartialItemNameKey(namePrefix string) []byte {
	return []byte(itemNamePrefix + ":" + strings.ToLower(namePrefix))
}

// makeItemKindKey generates a composite key for the kind index.
// Format: prefix:kind\x00path
func makeItemKindKey(kind int32, path string) []byte {
	prefix := itemKindPrefix + ":"
	buf := make([]byte, len(prefix)+4+1+len(path))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(kind))
	offset += 4
	buf[offset] = 0
	offset++
	copy(buf[offset:], path)
	return buf
}

// makePartialItemKindKey generates a partial key for kind scans.
func makePartialItemKindKey(kind int32) []byte {
	prefix := itemKindPrefix + ":"
	buf := make([]byte, len(prefix)+4+1)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(kind))
	buf[offset+4] = 0
	return buf
}

// makeItemUseKey generates a composite key for the usage index.
// The use count is stored bit-inverted in BigEndian order so a forward
// iteration visits the most-used items first.
func makeItemUseKey(useCount uint32, path string) []byte {
	prefix := itemUsePrefix + ":"
	buf := make([]byte, len(prefix)+4+len(path))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], ^useCount)
	offset += 4
	copy(buf[offset:], path)
	return buf
}

// makeFingerprintKey generates a key for a folder fingerprint.
func makeFingerprintKey(folderPath string) []byte {
	return []byte(fingerprintPrefix + ":" + folderPath)
}
