package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized_SummarySections(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("1. **過去の問い合わせ履歴の要約**: 返金の相談\n2. **注意点**: 丁寧に")
	require.NoError(t, err)

	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<strong>過去の問い合わせ履歴の要約</strong>")
}

func TestToHTMLSanitized_StripsScripts(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("hello <script>alert(1)</script> [x](https://example.com)")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `rel="nofollow`)
}
