package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/wiresep/pkg/errors"
)

var errTransient = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	_, hit, _ = c.Get(ctx, "key")
	assert.False(t, hit, "NullCache should not store data")

	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"wires":[]}`), 0))
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `{"wires":[]}`, string(data))

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is fine")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	path := c.(*FileCache).path("k")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoFileExists(t, path)
}

func TestFileCacheHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), 0), context.Canceled)
	_, _, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	assert.Equal(t, h1, Hash([]byte("hello")))
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := DeclutterKeyOpts{MaxSegmentSeparation: 7, MinNubLength: 2}

	key := k.DeclutterKey("abc", base)
	assert.Regexp(t, `^declutter:[0-9a-f]{64}$`, key)
	assert.Equal(t, key, k.DeclutterKey("abc", base), "keys are deterministic")

	assert.NotEqual(t, key, k.DeclutterKey("abd", base))
	other := base
	other.Corners = true
	assert.NotEqual(t, key, k.DeclutterKey("abc", other))
	other = base
	other.MaxSegmentSeparation = 8
	assert.NotEqual(t, key, k.DeclutterKey("abc", other))
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	opts := DeclutterKeyOpts{MaxSegmentSeparation: 7}
	assert.Equal(t, "staging:"+inner.DeclutterKey("h", opts), scoped.DeclutterKey("h", opts))

	nilInner := NewScopedKeyer(nil, "p:")
	assert.Equal(t, "p:"+inner.DeclutterKey("h", opts), nilInner.DeclutterKey("h", opts))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, "", t.TempDir(), "")
	require.NoError(t, err)
	assert.IsType(t, &FileCache{}, c)

	c, err = Open(ctx, BackendNone, "", "")
	require.NoError(t, err)
	assert.IsType(t, &NullCache{}, c)

	_, err = Open(ctx, BackendRedis, "", "")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	_, err = Open(ctx, BackendRedis, "", "http://localhost:6379")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "bad scheme is a config error: %v", err)

	_, err = Open(ctx, "memcached", "", "")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestRetryableError(t *testing.T) {
	assert.Nil(t, Retryable(nil))

	err := Retryable(errTransient)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, errTransient.Error(), err.Error())
	assert.ErrorIs(t, err, errTransient)
	assert.False(t, IsRetryable(errTransient))
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls, "non-retryable errors are not retried")

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errTransient)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errTransient)
	})
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	assert.Equal(t, context.Canceled, err)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.False(t, IsRetryable(classify(errTransient)))

	netErr := &timeoutError{}
	assert.True(t, IsRetryable(classify(netErr)))
}

type timeoutError struct{}

func (*timeoutError) Error() string   { return "i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }
