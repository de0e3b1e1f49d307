package blob

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Schemes of content addresses.
const (
	SchemeText     = "tt"
	SchemeExternal = "es"
)

// Location is where the bytes behind a content address live.
type Location struct {
	Scheme string
	// TextID is the old_id of a text row, set for SchemeText.
	TextID int64
	// Bucket and Key name an external object, set for SchemeExternal.
	Bucket string
	Key    string
}

func (l Location) External() bool {
	return l.Scheme == SchemeExternal
}

func (l Location) String() string {
	if l.External() {
		return fmt.Sprintf("%s:s3://%s/%s", SchemeExternal, l.Bucket, l.Key)
	}

	return fmt.Sprintf("%s:%d", SchemeText, l.TextID)
}

// AddressToStorageLocation maps an address such as "tt:42" or
// "es:s3://bucket/key" to its storage location.
func AddressToStorageLocation(address string) (Location, error) {
	scheme, rest, ok := strings.Cut(address, ":")
	if !ok || rest == "" {
		return Location{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
	}

	switch scheme {
	case SchemeText:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Location{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
		}
		return Location{Scheme: SchemeText, TextID: id}, nil
	case SchemeExternal:
		u, err := url.Parse(rest)
		if err != nil || u.Scheme != "s3" || u.Host == "" {
			return Location{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" {
			return Location{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
		}
		return Location{Scheme: SchemeExternal, Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%q: %w", address, ErrAddressNotFound)
	}
}
