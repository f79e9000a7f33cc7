package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "already clean", "already clean"},
		{"nested tags", "<p>Used for <b>testing</b></p>", "Used for testing"},
		{"whitespace collapse", "<p>too   much\n\nspace</p>", "too much space"},
		{"script dropped", "<p>keep</p><script>alert('x')</script>", "keep"},
		{"style dropped", "<style>p{color:red}</style><p>visible</p>", "visible"},
		{"comments dropped", "<!-- note --><p>body</p>", "body"},
		{"entities decoded", "<p>5&nbsp;mg &amp; more</p>", "5 mg & more"},
		{"only markup", "<p>   </p>", ""},
		{"unclosed tag", "<p>trailing", "trailing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestCleanBlocks(t *testing.T) {
	input := "<h2>Mechanism of Action</h2><p>Binds the receptor.</p><p>Blocks signalling.</p>"
	want := "Mechanism of Action\nBinds the receptor.\nBlocks signalling."
	assert.Equal(t, want, CleanBlocks(input))
}

func TestCleanBlocks_Empty(t *testing.T) {
	assert.Equal(t, "", CleanBlocks(""))
	assert.Equal(t, "", CleanBlocks("<p> </p>"))
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "text", stringValue("text"))
	assert.Equal(t, "20210615", stringValue(float64(20210615)))
	assert.Equal(t, "2.5", stringValue(2.5))
	assert.Equal(t, "true", stringValue(true))
	assert.Equal(t, "", stringValue(nil))
	assert.Equal(t, "", stringValue(map[string]any{"nested": 1}))
	assert.Equal(t, "", stringValue([]any{"a"}))
}
