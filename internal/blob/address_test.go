package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressToStorageLocation(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    Location
		wantErr bool
	}{
		{name: "text row", address: "tt:42", want: Location{Scheme: SchemeText, TextID: 42}},
		{name: "external object", address: "es:s3://blobs/wiki/ab/cd", want: Location{Scheme: SchemeExternal, Bucket: "blobs", Key: "wiki/ab/cd"}},
		{name: "empty", address: "", wantErr: true},
		{name: "no scheme", address: "42", wantErr: true},
		{name: "bad text id", address: "tt:abc", wantErr: true},
		{name: "zero text id", address: "tt:0", wantErr: true},
		{name: "external without key", address: "es:s3://blobs/", wantErr: true},
		{name: "external other scheme", address: "es:DB://cluster1/5", wantErr: true},
		{name: "unknown scheme", address: "bad:123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddressToStorageLocation(tt.address)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAddressNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.address, got.String())
		})
	}
}
