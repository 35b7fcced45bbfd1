package sqlconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "alice", String("alice"))
	assert.Equal(t, "alice", String([]byte("alice")))
	assert.Equal(t, "42", String(int64(42)))

	assert.Nil(t, StringPtr(nil))
	assert.Equal(t, "bob", *StringPtr("bob"))
}

func TestInt64(t *testing.T) {
	assert.Equal(t, int64(7), Int64(int64(7)))
	assert.Equal(t, int64(7), Int64(7))
	assert.Equal(t, int64(7), Int64("7"))
	assert.Equal(t, int64(7), Int64([]byte("7")))
	assert.Equal(t, int64(7), Int64(7.9))
	assert.Equal(t, int64(0), Int64(nil))
	assert.Equal(t, int64(0), Int64("seven"))

	assert.Nil(t, Int64Ptr(nil))
	assert.Equal(t, int64(3), *Int64Ptr(int64(3)))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool(int64(1)))
	assert.True(t, Bool("1"))
	assert.True(t, Bool("true"))
	assert.False(t, Bool(int64(0)))
	assert.False(t, Bool(nil))
	assert.False(t, Bool("false"))
}

func TestTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	got := Time(want)
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got))

	got = Time("2024-03-01T12:30:00Z")
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got))

	got = Time("2024-03-01 12:30:00")
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got))

	assert.Nil(t, Time(nil))
	assert.Nil(t, Time("yesterday"))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "x", NullIfEmpty("x"))

	var p *int64
	assert.Nil(t, NullIfNil(p))
	assert.Equal(t, int64(5), NullIfNil(Ptr(int64(5))))
}

func TestPtrVal(t *testing.T) {
	assert.Equal(t, "hello", *Ptr("hello"))
	assert.Equal(t, 0, Val[int](nil))
	assert.Equal(t, 9, Val(Ptr(9)))
	assert.Equal(t, "def", ValOr[string](nil, "def"))
	assert.Equal(t, "v", ValOr(Ptr("v"), "def"))
}
