package htmltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToText(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "plain", input: "two-sum", expect: "two-sum"},
		{
			name:   "paragraphs",
			input:  "<p>Given an array <code>nums</code>.</p><p>Return   indices.</p>",
			expect: "Given an array nums.\nReturn indices.",
		},
		{
			name:   "list and breaks",
			input:  "<ul><li>a</li><li>b<br>c</li></ul>",
			expect: "a\nb\nc",
		},
		{
			name:   "entities",
			input:  "<p>1 &lt;= n &amp;&amp; n &lt;= 10<sup>4</sup></p>",
			expect: "1 <= n && n <= 104",
		},
		{name: "script dropped", input: "<p>x</p><script>alert(1)</script>", expect: "x"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expect, ToText(test.input))
		})
	}
}

func TestStrip(t *testing.T) {
	require.Equal(t, "Two Sum Easy", Strip("<h2>Two Sum</h2>\n<font color='green'>Easy</font>"))
}
