package generation

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestError_IsAndAs checks sentinel matching through wrapping layers.
func TestError_IsAndAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("pipeline: %w", Wrap(KindIO, "finalize", fs.ErrPermission))

	require.ErrorIs(t, err, ErrIO)
	require.NotErrorIs(t, err, ErrConfigWrite)
	require.ErrorIs(t, err, fs.ErrPermission)
	require.Equal(t, KindIO, KindOf(err))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Contains(t, err.Error(), "finalize: io failure")
}

// TestDescribe maps kinds to friendly sentences.
func TestDescribe(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Invalid targetUrl: must use http or https.",
		Describe(InvalidRequest(FieldTargetURL, "must use http or https")))
	require.Contains(t, Describe(Wrap(KindIO, "assemble", fs.ErrPermission)), "different output location")
	require.Contains(t, Describe(ErrIconDecode), "PNG recommended")
	require.Empty(t, Describe(nil))
}
