package icon

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncode_Layout checks the header, table of contents and entry framing byte by byte.
func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Type: "icp4", Data: []byte{1, 2, 3}},
		{Type: "ic10", Data: []byte{4}},
	}

	data, err := Encode(entries)
	require.NoError(t, err)

	// 8 header + (8 + 2*8) toc + (8+3) + (8+1).
	require.Len(t, data, 8+24+11+9)
	require.Equal(t, "icns", string(data[0:4]))
	require.Equal(t, uint32(len(data)), binary.BigEndian.Uint32(data[4:8]))

	require.Equal(t, "TOC ", string(data[8:12]))
	require.Equal(t, uint32(24), binary.BigEndian.Uint32(data[12:16]))
	require.Equal(t, "icp4", string(data[16:20]))
	require.Equal(t, uint32(11), binary.BigEndian.Uint32(data[20:24]))
	require.Equal(t, "ic10", string(data[24:28]))
	require.Equal(t, uint32(9), binary.BigEndian.Uint32(data[28:32]))

	require.Equal(t, "icp4", string(data[32:36]))
	require.Equal(t, uint32(11), binary.BigEndian.Uint32(data[36:40]))
	require.Equal(t, []byte{1, 2, 3}, data[40:43])

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, entries, decoded)
}

// TestEncode_RejectsBadType guards the four-byte OSType rule.
func TestEncode_RejectsBadType(t *testing.T) {
	t.Parallel()

	_, err := Encode([]Entry{{Type: "ic1", Data: nil}})
	require.ErrorIs(t, err, errInvalidTypeCode)
}

// TestDecode_Corruption detects damaged headers.
func TestDecode_Corruption(t *testing.T) {
	t.Parallel()

	data, err := Encode([]Entry{{Type: "ic07", Data: []byte("payload")}})
	require.NoError(t, err)

	_, err = Decode([]byte("nope"))
	require.ErrorIs(t, err, errBadMagic)

	_, err = Decode(data[:len(data)-1])
	require.ErrorIs(t, err, errLengthMismatch)

	bad := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(bad[20:24], 99)
	_, err = Decode(bad)
	require.ErrorIs(t, err, errTOCMismatch)

	bad = append([]byte(nil), data...)
	binary.BigEndian.PutUint32(bad[28:32], 1000)
	_, err = Decode(bad)
	require.ErrorIs(t, err, errTruncatedEntry)
}
