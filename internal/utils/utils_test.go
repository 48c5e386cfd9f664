package utils

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositiveInt(t *testing.T) {
	assert.Equal(t, 3, PositiveInt("3", 1))
	assert.Equal(t, 12, PositiveInt("", 12))
	assert.Equal(t, 12, PositiveInt("-4", 12))
	assert.Equal(t, 1, PositiveInt("abc", 1))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("17")
	assert.True(t, ok)
	assert.EqualValues(t, 17, id)

	_, ok = ParseID("0")
	assert.False(t, ok)
	_, ok = ParseID("x1")
	assert.False(t, ok)
}

func TestGravatarURLIsDeterministic(t *testing.T) {
	a := GravatarURL(" A@X.com ")
	b := GravatarURL("a@x.com")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "https://www.gravatar.com/avatar/"))
	assert.Len(t, strings.TrimPrefix(a, "https://www.gravatar.com/avatar/"), 32)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestParseUserAgent(t *testing.T) {
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	info := ParseUserAgent(ua)
	assert.True(t, strings.HasPrefix(info.Browser, "Chrome"), info.Browser)
	assert.True(t, strings.HasPrefix(info.OS, "Windows"), info.OS)

	empty := ParseUserAgent("")
	assert.Equal(t, DeviceInfo{Browser: Unknown, OS: Unknown}, empty)
}

func TestTTLCacheExpires(t *testing.T) {
	c, err := NewTTLCache[string](4, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("1.2.3.4", "Somewhere")

	v, ok := c.Get("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, "Somewhere", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("1.2.3.4")
	assert.False(t, ok)
}

type locatorFunc func(ctx context.Context, ip string) (string, error)

func (f locatorFunc) Locate(ctx context.Context, ip string) (string, error) { return f(ctx, ip) }

func TestBoundedLocatorCaches(t *testing.T) {
	var calls int32
	next := locatorFunc(func(context.Context, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "China Beijing", nil
	})
	b, err := NewBoundedLocator(next, time.Second)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		label, err := b.Locate(context.Background(), "1.1.1.1")
		require.NoError(t, err)
		assert.Equal(t, "China Beijing", label)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBoundedLocatorTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	next := locatorFunc(func(context.Context, string) (string, error) {
		<-release
		return "late", nil
	})
	b, err := NewBoundedLocator(next, 20*time.Millisecond)
	require.NoError(t, err)

	label, err := b.Locate(context.Background(), "8.8.8.8")
	assert.Empty(t, label)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestEnhanceMailHTML(t *testing.T) {
	in := RenderMarkdown("see [post](/articles/1) and ![img](/static/a.png)")
	out := string(EnhanceMailHTML(in, "https://blog.example.com"))

	assert.Contains(t, out, `href="https://blog.example.com/articles/1"`)
	assert.Contains(t, out, `src="https://blog.example.com/static/a.png"`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("hi <script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hi")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "hello world", Excerpt("<p>hello   <b>world</b></p>", 20))
	assert.Equal(t, "hel...", Excerpt("hello", 3))
}
