package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 1, 2, 10, 0, 5, 0, time.UTC)

func TestNewItemSplitsLinks(t *testing.T) {
	it := NewItem(KindLink, "bob", " https://example.org/doc the design doc ", 4, at)
	assert.Equal(t, "https://example.org/doc", it.URL)
	assert.Equal(t, "the design doc", it.Line)
	assert.Equal(t, "10:00:05", it.Time)
	assert.Equal(t, "l-4", it.Anchor())

	plain := NewItem(KindLink, "bob", "see the wiki", 5, at)
	assert.Empty(t, plain.URL)
	assert.Equal(t, "see the wiki", plain.Line)
}

func TestHasURLScheme(t *testing.T) {
	assert.True(t, HasURLScheme("HTTPS://example.org"))
	assert.True(t, HasURLScheme("mailto:a@b.c"))
	assert.False(t, HasURLScheme("example.org"))
	assert.False(t, HasURLScheme(" http://example.org"))
}

func TestRender(t *testing.T) {
	rc := RenderContext{LogURL: "sync.log.html"}

	tests := []struct {
		name   string
		item   *Item
		format Format
		want   string
	}{
		{
			name:   "text action",
			item:   NewItem(KindAction, "bob", "write docs", 3, at),
			format: FormatText,
			want:   "ACTION: write docs  (bob, 10:00:05)",
		},
		{
			name:   "text info has no tag",
			item:   NewItem(KindInfo, "bob", "we shipped", 3, at),
			format: FormatText,
			want:   "we shipped  (bob, 10:00:05)",
		},
		{
			name:   "text link",
			item:   NewItem(KindLink, "bob", "http://x.org notes", 3, at),
			format: FormatText,
			want:   "LINK: <http://x.org> notes  (bob, 10:00:05)",
		},
		{
			name:   "html escapes free text",
			item:   NewItem(KindAgreed, "alice", "use <b> tags & stuff", 7, at),
			format: FormatHTML,
			want: `<i class="AGREED">AGREED</i>: use &lt;b&gt; tags &amp; stuff ` +
				`<span class="details">(<a href='sync.log.html#l-7'>alice</a>, 10:00:05)</span>`,
		},
		{
			name:   "html topic",
			item:   NewItem(KindTopic, "alice", "Intro", 2, at),
			format: FormatHTML,
			want: `<b class="TOPIC">Intro</b> ` +
				`<span class="details">(<a href='sync.log.html#l-2'>alice</a>, 10:00:05)</span>`,
		},
		{
			name:   "html link quotes href",
			item:   NewItem(KindLink, "bob", `http://x.org/"q"`, 3, at),
			format: FormatHTML,
			want: `<i class="LINK">LINK</i>: <a href="http://x.org/%22q%22">http://x.org/&#34;q&#34;</a> ` +
				`<span class="details">(<a href='sync.log.html#l-3'>bob</a>, 10:00:05)</span>`,
		},
		{
			name:   "htmllog row",
			item:   NewItem(KindIdea, "bob", "tabs", 9, at),
			format: FormatHTMLLog,
			want:   `<tr><td><a href='sync.log.html#l-9'>10:00:05</a></td><td>IDEA</td><td>bob</td><td>tabs</td></tr>`,
		},
		{
			name:   "wiki wraps markup",
			item:   NewItem(KindHelp, "bob", "need [[review]]", 3, at),
			format: FormatWiki,
			want:   "''HELP:'' <nowiki>need [[review]]</nowiki>  (bob, 10:00:05)",
		},
		{
			name:   "markdown",
			item:   NewItem(KindIdea, "b_b", "use *stars*", 3, at),
			format: FormatMarkdown,
			want:   `**IDEA**: use \*stars\* ([b\_b](sync.log.html#l-3), 10:00:05)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.item, tt.format, rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderRST(t *testing.T) {
	_, err := Render(NewItem(KindInfo, "bob", "x", 1, at), FormatRST, RenderContext{})
	require.ErrorIs(t, err, ErrNoRefRegistry)

	refs := NewRefRegistry()
	rc := RenderContext{LogURL: "sync.log.html", Refs: refs}

	topic := NewItem(KindTopic, "alice", "", 2, at)
	got, err := Render(topic, FormatRST, rc)
	require.NoError(t, err)
	assert.Equal(t, "** **  (alice-10:00:05_)", got)

	action := NewItem(KindAction, "alice", "fix *all* bugs", 3, at)
	got, err = Render(action, FormatRST, rc)
	require.NoError(t, err)
	assert.Equal(t, `*ACTION*: fix \*all\* bugs  (alice-10:00:05a_)`, got)

	def, ok := refs.Definition(action)
	require.True(t, ok)
	assert.Equal(t, ".. _alice-10:00:05a: sync.log.html#l-3", def)
}

func TestItemString(t *testing.T) {
	it := NewItem(KindAction, "bob", "<b>", 1, at)
	assert.Equal(t, "ACTION: <b>  (bob, 10:00:05)", it.String())
}

func TestEscapers(t *testing.T) {
	assert.Equal(t, "&lt;a href=&#39;x&#39;&gt;", EscapeHTML("<a href='x'>"))
	assert.Equal(t, `a\_b \*c\* \|d\|`, EscapeRST("a_b *c* |d|"))
	assert.Equal(t, "plain words", EscapeWiki("plain words"))
	assert.Equal(t, "<nowiki>a &lt;/nowiki&gt; b</nowiki>", EscapeWiki("a </nowiki> b"))
	assert.Equal(t, `\# \[x\]`, EscapeMarkdown("# [x]"))
	assert.Equal(t, "<raw>", EscapeText("<raw>"))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "rst", FormatRST.String())
	assert.Equal(t, "unknown", Format(99).String())
	assert.Equal(t, "VOTE", KindVote.String())
	assert.Equal(t, "UNKNOWN", Kind(-1).String())
}
