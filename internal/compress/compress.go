package compress

import (
	"fmt"
	"strings"
)

// Compress encodes and decodes blob bytes. Flag is the token recorded in a
// text row's old_flags column for bytes written by the codec.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Flag() string
}

// New returns the codec configured by name.
func New(name string) (Compress, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression: %q", name)
	}
}

// FromFlags picks the codec matching a comma separated old_flags value.
func FromFlags(flags string) Compress {
	for _, flag := range strings.Split(flags, ",") {
		switch strings.TrimSpace(flag) {
		case GZipFlag:
			return NewGZip()
		case BrotliFlag:
			return NewBrotli()
		case LZ4Flag:
			return NewLZ4()
		}
	}

	return NewNop()
}

// Flags joins the codec flag with the utf-8 marker.
func Flags(c Compress) string {
	if c.Flag() == "" {
		return "utf-8"
	}

	return "utf-8," + c.Flag()
}
