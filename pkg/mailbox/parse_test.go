package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFromHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "code in paragraph",
			body: `<html><body><p>Your verification code:</p><p>123456</p></body></html>`,
			want: "123456",
		},
		{
			name: "code with surrounding whitespace",
			body: "<p>\n  654321\n</p>",
			want: "654321",
		},
		{
			name: "first matching paragraph wins",
			body: `<p>111111</p><p>222222</p>`,
			want: "111111",
		},
		{
			name: "code embedded in sentence is not a match",
			body: `<p>Your code is 123456, enter it now</p>`,
			want: "",
		},
		{
			name: "five digits is not a code",
			body: `<p>12345</p>`,
			want: "",
		},
		{
			name: "seven digits is not a code",
			body: `<p>1234567</p>`,
			want: "",
		},
		{
			name: "no paragraphs",
			body: `<div>123456</div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeFromHTML(tt.body))
		})
	}
}

func TestCodeFromText(t *testing.T) {
	assert.Equal(t, "123456", CodeFromText("123456"))
	assert.Equal(t, "123456", CodeFromText("  123456\n"))
	assert.Equal(t, "", CodeFromText("your code is 123456"))
	assert.Equal(t, "", CodeFromText(""))
}
