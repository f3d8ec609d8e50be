package dataset

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/testutil"
)

func TestDecode_Latin1(t *testing.T) {
	row := "1,Café near the park,10,Zoë,Manhattan,Midtown,40.75,-73.98,Entire home/apt,100,1,0,,,1,0\n"
	utf8 := strings.Join(testutil.Header(), ",") + "\n" + row

	var latin1 bytes.Buffer
	w := charmap.ISO8859_1.NewEncoder().Writer(&latin1)
	_, err := io.WriteString(w, utf8)
	require.NoError(t, err)

	table, _, err := Load(context.Background(), &latin1, LoadOptions{Encoding: "latin1"})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Café near the park", table.Listings[0].Name)
	assert.Equal(t, "Zoë", table.Listings[0].HostName)
}

func TestDecode_DefaultIsPassthrough(t *testing.T) {
	src := strings.NewReader("abc")

	r, err := Decode(src, "")
	require.NoError(t, err)
	assert.Same(t, src, r)
}

func TestDecode_UnknownEncoding(t *testing.T) {
	_, err := Decode(strings.NewReader(""), "klingon")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
