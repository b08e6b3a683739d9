package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/internal/hash"
)

type harness struct {
	fs  afero.Fs
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("FEELGOOD_LOG_LEVEL", "error")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	return &harness{fs: afero.NewMemMapFs(), out: &bytes.Buffer{}}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	return NewWrapper(h.fs, h.out).Run(context.Background(), append([]string{"feelgood"}, args...))
}

func (h *harness) read(t *testing.T, name string) []byte {
	t.Helper()

	data, err := afero.ReadFile(h.fs, filepath.Join("out", name))
	require.NoError(t, err)

	return data
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)

	err := h.run("generate", "--sections", "1", "--section-length", "1", "--count", "3", "--output", "out", "--manifest")
	require.NoError(t, err)
	require.Contains(t, h.out.String(), "files=3 written=3 bytes=18")
	require.Contains(t, h.out.String(), "next-index=3")

	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 0x02}, h.read(t, "file_2.bin"))

	manifest := strings.Split(strings.TrimSpace(string(h.read(t, "manifest.tsv"))), "\n")
	require.Len(t, manifest, 4)
	require.True(t, strings.HasPrefix(manifest[1], "file_0.bin\t0\t6\t"))
}

func TestGenerate_DefaultSection(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "--count", "2", "--output", "out"))
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 0, 0, 0, 0, 0, 0, 0, 1}, h.read(t, "file_1.bin"))
}

func TestGenerate_Clamped(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "1", "--count", "1000", "-o", "out"))
	require.Contains(t, h.out.String(), "files=256 ")
	require.Contains(t, h.out.String(), "clamped=true")
	require.Equal(t, byte(0xFF), h.read(t, "file_255.bin")[5])
}

func TestGenerate_StartIndex(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "1", "--count", "5", "--start-index", "0xFE", "-o", "out"))
	require.Contains(t, h.out.String(), "files=2 ")
	require.Equal(t, byte(0xFE), h.read(t, "file_0.bin")[5])
	require.Equal(t, byte(0xFF), h.read(t, "file_1.bin")[5])
}

func TestGenerate_TLV(t *testing.T) {
	h := newHarness(t)

	err := h.run("generate", "-n", "2", "-w", "1", "--count", "1", "--layout", "tlv", "--tags", "9", "--tags", "10", "-o", "out")
	require.NoError(t, err)
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 9, 1, 0, 10, 1, 0}, h.read(t, "file_0.bin"))
}

func TestGenerate_Environment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("FEELGOOD_COUNT", "2")
	t.Setenv("FEELGOOD_SECTION_LENGTH", "1")

	require.NoError(t, h.run("generate", "-o", "out"))
	require.Contains(t, h.out.String(), "files=2 ")

	require.NoError(t, h.run("generate", "-o", "out", "--count", "4"))
	require.Contains(t, h.out.String(), "files=4 ", "flags override the environment")
}

func TestGenerate_ConfigFile(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "feelgood.yaml")
	require.NoError(t, os.WriteFile(path, []byte("section-length: 2\ncount: 3\noutput: out\n"), 0o600))

	require.NoError(t, h.run("--config", path, "generate"))
	require.Contains(t, h.out.String(), "bytes=21")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	h := newHarness(t)

	err := h.run("generate", "--layout", "zigzag", "-o", "out")
	require.ErrorIs(t, err, errs.ErrInvalidLayout)

	err = h.run("generate", "--compression", "gzip", "-o", "out")
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	err = h.run("generate", "-w", "0", "-o", "out")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	exists, err := afero.DirExists(h.fs, "out")
	require.NoError(t, err)
	require.False(t, exists, "nothing is written for an invalid configuration")
}

func TestGenerate_Compressed(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "2", "--count", "50", "--compression", "s2", "-o", "out"))

	exists, err := afero.Exists(h.fs, filepath.Join("out", "file_49.bin.s2"))
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, h.run("verify", "--check-layout", "-w", "2", "out"))
	require.Contains(t, h.out.String(), "files=50 ")
	require.Contains(t, h.out.String(), "problems=0 duplicates=0")
}

func TestGenerate_MetricsFile(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "feelgood.prom")
	require.NoError(t, h.fs.MkdirAll(dir, 0o755))

	require.NoError(t, h.run("generate", "-w", "1", "--count", "3", "-o", "out", "--metrics-file", path))

	data, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	require.Contains(t, string(data), "feelgood_files_generated_total 3")
	require.Contains(t, string(data), "feelgood_bytes_generated_total 18")

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "metrics file must go through the configured filesystem")

	entries, err := afero.ReadDir(h.fs, dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must be renamed away")
}

func TestGenerate_CompressedManifest(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "1", "--count", "2", "-o", "out", "--manifest", "--compression", "zstd"))

	manifest := strings.Split(strings.TrimSpace(string(h.read(t, "manifest.tsv"))), "\n")
	require.Len(t, manifest, 3)
	for i, line := range manifest[1:] {
		name := strings.Split(line, "\t")[0]
		require.Equal(t, fmt.Sprintf("file_%d.bin.zst", i), name)
		require.NotEmpty(t, h.read(t, name))
	}

	digest := hash.Digest([]byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 0x00})
	require.Equal(t, fmt.Sprintf("file_0.bin.zst\t0\t6\t%016x", digest), manifest[1])
}

func TestGenerate_PushGateway(t *testing.T) {
	h := newHarness(t)

	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, h.run("generate", "-w", "1", "--count", "1", "-o", "out", "--push-gateway", srv.URL))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"PUT /metrics/job/feelgood"}, paths)
}

func TestSweep(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("sweep", "-n", "3", "-w", "1", "--count", "2", "-o", "out"))
	require.Contains(t, h.out.String(), "files=6 ")
	require.Equal(t, []byte{0xFE, 0xE1, 0x90, 0x0D, 0x00, 0, 0, 1}, h.read(t, "file_3_sec_1.bin"))

	require.NoError(t, h.run("verify", "out"))
	require.Contains(t, h.out.String(), "files=6 ")
}

func TestVerify_Duplicate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "1", "--count", "2", "-o", "out"))
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join("out", "again.bin"), h.read(t, "file_1.bin"), 0o644))

	err := h.run("verify", "out")
	require.Error(t, err)
	require.Contains(t, h.out.String(), "duplicates=1")
	require.Contains(t, h.out.String(), "duplicate: ")
}

func TestVerify_DefaultsToOutput(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "-w", "1", "--count", "2", "-o", "out"))
	require.NoError(t, h.run("verify", "-o", "out"))
	require.Contains(t, h.out.String(), "files=2 ")

	require.Error(t, h.run("verify", "missing"))
}
