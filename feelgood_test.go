package feelgood

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/generator"
)

func TestHeader(t *testing.T) {
	h := Header()
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00}, h)

	h[0] = 0
	require.Equal(t, byte(0xFE), Header()[0], "every call returns a fresh slice")
}

func TestMapIndex(t *testing.T) {
	b, err := MapIndex(big.NewInt(0x0102), 3)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, b)

	_, err = MapIndex(big.NewInt(256), 1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(2)
	require.NoError(t, err)
	require.Equal(t, []int{DefaultSectionLength}, g.Config().SectionLengths)

	f, ok := g.Next()
	require.True(t, ok)
	require.Len(t, f.Data, 5+DefaultSectionLength)

	g, err = NewGenerator(3, generator.WithSectionLengths(1))
	require.NoError(t, err)

	var names []string
	for _, f := range g.All() {
		names = append(names, f.Name())
	}
	require.Equal(t, []string{"file_0.bin", "file_1.bin", "file_2.bin"}, names)
}

func TestNewUniformGenerator(t *testing.T) {
	g, err := NewUniformGenerator(2, 1, 1000)
	require.NoError(t, err)
	require.False(t, g.Clamped())
	require.Equal(t, uint64(1000), g.Limit())

	g, err = NewUniformGenerator(1, 1, 1000, generator.WithStartUint64(250))
	require.NoError(t, err)
	require.True(t, g.Clamped())
	require.Equal(t, uint64(6), g.Limit())

	_, err = NewUniformGenerator(0, 1, 1)
	require.ErrorIs(t, err, errs.ErrNoSections)
}

func TestGenerateToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")

	report, err := GenerateToDir(context.Background(), dir, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), report.Written)

	data, err := os.ReadFile(filepath.Join(dir, "file_3.bin"))
	require.NoError(t, err)
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 0, 0, 0, 0, 0, 0, 0, 3}, data)
}
