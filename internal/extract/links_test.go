// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-outreach/internal/fetch"
)

func TestCollectLinks(t *testing.T) {
	html := `<html><body><ul>
<li>Lovelace lab <a href="/people/ada">Ada Lovelace</a> analytical engines</li>
<li><a href="people/alan#bio">Alan</a></li>
<li><a href="/people/ada/">Ada again</a></li>
<li><a href="mailto:ada@school.edu">mail</a></li>
<li><a href="javascript:void(0)">js</a></li>
<li><a href="tel:+15550100">call</a></li>
<li><a href="#top">top</a></li>
<li><a href="ftp://files.school.edu/x">ftp</a></li>
<li><a href="https://school.edu/visited">seen</a></li>
</ul></body></html>`
	page, err := fetch.ParseString("https://school.edu/faculty/", html)
	require.NoError(t, err)

	visited := NewVisited("https://school.edu/visited/")
	links := CollectLinks(page, visited, 50)

	require.Len(t, links, 2)
	assert.Equal(t, "https://school.edu/people/ada", links[0].URL)
	assert.Equal(t, "Ada Lovelace", links[0].Text)
	assert.Equal(t, "Lovelace lab Ada Lovelace analytical engines", links[0].Context)
	assert.Equal(t, "https://school.edu/faculty/people/alan#bio", links[1].URL)
}

func TestCollectLinksLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, `<p><a href="/p/%d">Person %d</a></p>`, i, i)
	}
	page, err := fetch.ParseString("https://school.edu/", b.String())
	require.NoError(t, err)

	links := CollectLinks(page, nil, 0)
	assert.Len(t, links, DefaultLinkSample)
	assert.Equal(t, "https://school.edu/p/0", links[0].URL)
}

func TestVisited(t *testing.T) {
	v := NewVisited()
	assert.True(t, v.Add("https://school.edu/a/"))
	assert.False(t, v.Add("https://school.edu/a"))
	assert.True(t, v.Has("https://school.edu/a#frag"))
	assert.False(t, v.Has("https://school.edu/b"))
	assert.Equal(t, 1, v.Len())
}
