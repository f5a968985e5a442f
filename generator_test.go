package seqdict

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	seqerrors "github.com/seqdict/seqdict/errors"
)

// requireNoArtifacts asserts that neither the target file nor any .tmp
// leftover exists in dir.
func requireNoArtifacts(t *testing.T, dir, target string) {
	t.Helper()
	_, err := os.Stat(target)
	require.True(t, os.IsNotExist(err), "target must not exist")
	leftovers, err := filepath.Glob(filepath.Join(dir, "*"+tempSuffix))
	require.NoError(t, err)
	require.Empty(t, leftovers, "no temp file may survive")
}

func TestGenerateEndToEnd(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dict")

	stats, err := Generate(context.Background(), target, 20,
		WithDigits(8),
		WithChunkSize(5),
		WithWorkers(2))
	require.NoError(t, err)
	require.EqualValues(t, 20, stats.Records)
	require.EqualValues(t, 180, stats.Bytes)
	require.Equal(t, 4, stats.Chunks)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Len(t, data, 180)

	var want strings.Builder
	for i := range 20 {
		fmt.Fprintf(&want, "%08d\n", i)
	}
	require.Equal(t, want.String(), string(data))
}

func TestGenerateSingleRecord(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dict")
	_, err := Generate(context.Background(), target, 1, WithDigits(1))
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "0\n", string(data))
}

func TestGenerateDeterministicAcrossWorkerCounts(t *testing.T) {
	dir := t.TempDir()

	hash := func(workers int) uint64 {
		t.Helper()
		target := filepath.Join(dir, fmt.Sprintf("out-%d.dict", workers))
		_, err := Generate(context.Background(), target, 1_000_003,
			WithDigits(7),
			WithChunkSize(4096),
			WithWorkers(workers))
		require.NoError(t, err)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		require.Len(t, data, 1_000_003*8)
		return xxhash.Sum64(data)
	}

	h1 := hash(1)
	require.Equal(t, h1, hash(2))
	require.Equal(t, h1, hash(4))
}

func TestGenerateRoundTrip(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dict")
	_, err := Generate(context.Background(), target, 1000,
		WithDigits(4),
		WithChunkSize(137),
		WithWorkers(4))
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()

	// Every record decodes to the next integer: ascending, no
	// duplicates, no gaps.
	next := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		require.Len(t, line, 4)
		v, err := strconv.Atoi(line)
		require.NoError(t, err)
		require.Equal(t, next, v)
		next++
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, 1000, next)
}

func TestGenerateFaultInjection(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.dict")

	g, err := New(target, 1000, WithDigits(4), WithChunkSize(100), WithWorkers(4))
	require.NoError(t, err)
	g.cfg.faultChunk = 7

	_, err = g.Run(context.Background())
	var fault *seqerrors.ChunkFaultError
	require.ErrorAs(t, err, &fault)
	require.Equal(t, 7, fault.Index)
	require.ErrorIs(t, err, errInjectedFault)

	requireNoArtifacts(t, dir, target)
}

func TestGenerateFaultLeavesExistingTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.dict")
	require.NoError(t, os.WriteFile(target, []byte("precious"), 0o644))

	g, err := New(target, 1000, WithDigits(4), WithChunkSize(100))
	require.NoError(t, err)
	g.cfg.faultChunk = 3

	_, err = g.Run(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "precious", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*"+tempSuffix))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestGenerateCancellation(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.dict")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interrupt as soon as the first chunk commits; thousands remain.
	var once sync.Once
	_, err := Generate(ctx, target, 20_000_000,
		WithDigits(8),
		WithChunkSize(10_000),
		WithWorkers(2),
		WithProgressInterval(0),
		WithProgress(func(Progress) {
			once.Do(cancel)
		}))
	require.ErrorIs(t, err, seqerrors.ErrInterrupted)

	requireNoArtifacts(t, dir, target)
}

func TestGenerateInsufficientSpace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.dict")

	// 4×10^17 records × 20 bytes is an 8 EB artifact: the preflight must
	// fail before anything touches the disk.
	_, err := Generate(context.Background(), target, 400_000_000_000_000_000,
		WithDigits(19))

	var spaceErr *seqerrors.InsufficientSpaceError
	require.ErrorAs(t, err, &spaceErr)
	require.EqualValues(t, uint64(8_000_000_000_000_000_000), spaceErr.Required)
	require.Less(t, spaceErr.Available, spaceErr.Required)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "preflight failure must create nothing")
}

func TestGeneratorRunsOnce(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dict")
	g, err := New(target, 10, WithDigits(2), WithChunkSize(4))
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	require.ErrorIs(t, err, seqerrors.ErrGeneratorSpent)
}

func TestGenerateReplacesExistingTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.dict")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	_, err := Generate(context.Background(), target, 3, WithDigits(1))
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", string(data))
}
