// Package htmltext renders LeetCode problem HTML as plain text.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"br": true, "p": true, "li": true, "div": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "tr": true,
}

// ToText converts an HTML fragment into plain text, keeping line breaks at
// block boundaries and dropping blank lines. Unparseable input is returned as is.
func ToText(input string) string {
	if input == "" {
		return ""
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var builder strings.Builder
	extractText(node, &builder)

	lines := strings.Split(builder.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Strip removes all markup and collapses whitespace into single spaces.
func Strip(input string) string {
	return strings.Join(strings.Fields(ToText(input)), " ")
}

func extractText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		if blockElements[node.Data] {
			builder.WriteRune('\n')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}

	if node.Type == html.ElementNode && blockElements[node.Data] && node.Data != "br" {
		builder.WriteRune('\n')
	}
}
