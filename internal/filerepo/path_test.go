package filerepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPaths(t *testing.T) {
	assert.Equal(t, "a/a9/", HashPath("Example.jpg"))
	assert.Equal(t, "public/a/a9/Example.jpg", PublicPath("Example.jpg"))
	assert.Equal(t, "archive/a/a9/20240101000000!Example.jpg", ArchivePath("Example.jpg", "20240101000000!Example.jpg"))

	assert.Equal(t, "k/e/y/", DeletedHashPath("key.png"))
	assert.Equal(t, "deleted/k/e/y/key.png", DeletedPath("key.png"))
	assert.Equal(t, "a/", DeletedHashPath("a"))
}

func TestStorageKey(t *testing.T) {
	tests := []struct {
		sha1 string
		name string
		want string
	}{
		{sha1: "abc", name: "Logo.PNG", want: "abc.png"},
		{sha1: "abc", name: "Archive.tar.gz", want: "abc.gz"},
		{sha1: "abc", name: "README", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorageKey(tt.sha1, tt.name))
		})
	}
}

func TestSha1Base36(t *testing.T) {
	// sha1("") = da39a3ee5e6b4b0d3255bfef95601890afd80709
	assert.Equal(t, "phoiac9h4m842xq45sp7s6u21eteeq1", Sha1Base36(nil))
	assert.Len(t, Sha1Base36([]byte("x")), sha1Base36Length)
}

func TestResult(t *testing.T) {
	assert.True(t, OK().IsOK())
	assert.True(t, NotWritable().IsNotWritable())
	assert.ErrorIs(t, NotWritable().Err, ErrReadOnly)
	assert.False(t, Failed(ErrObjectNotFound).IsOK())
	assert.Equal(t, "failed: object not found", Failed(ErrObjectNotFound).String())
}
