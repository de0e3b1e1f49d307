package filerepo

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"math/big"
	"path"
	"strings"
)

// Zones of the repository.
const (
	ZonePublic  = "public"
	ZoneArchive = "archive"
	ZoneDeleted = "deleted"
)

const (
	hashLevels        = 2
	deletedHashLevels = 3
	sha1Base36Length  = 31
)

// HashPath returns the md5 based directory of a file name, e.g. "a/ab/".
func HashPath(name string) string {
	sum := md5.Sum([]byte(name))
	hash := hex.EncodeToString(sum[:])

	var b strings.Builder
	for i := 1; i <= hashLevels; i++ {
		b.WriteString(hash[:i])
		b.WriteByte('/')
	}

	return b.String()
}

// DeletedHashPath returns the directory of a storage key in the deleted zone,
// one level per leading character, e.g. "k/e/y/".
func DeletedHashPath(key string) string {
	var b strings.Builder
	for i := 0; i < deletedHashLevels && i < len(key); i++ {
		b.WriteByte(key[i])
		b.WriteByte('/')
	}

	return b.String()
}

// PublicPath is the path of the current version of a file.
func PublicPath(name string) string {
	return ZonePublic + "/" + HashPath(name) + name
}

// ArchivePath is the path of a superseded version of a file.
func ArchivePath(name string, archiveName string) string {
	return ZoneArchive + "/" + HashPath(name) + archiveName
}

// DeletedPath is the path of a storage key in the deleted zone.
func DeletedPath(key string) string {
	return ZoneDeleted + "/" + DeletedHashPath(key) + key
}

// Sha1Base36 returns the sha1 of data in base 36, zero padded to 31 digits.
func Sha1Base36(data []byte) string {
	sum := sha1.Sum(data)
	digits := new(big.Int).SetBytes(sum[:]).Text(36)

	if len(digits) < sha1Base36Length {
		digits = strings.Repeat("0", sha1Base36Length-len(digits)) + digits
	}

	return digits
}

// StorageKey is the deleted zone key of a version: its sha1 plus the
// lower-cased extension of the file name.
func StorageKey(sha1 string, name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return sha1
	}

	return sha1 + "." + ext
}
