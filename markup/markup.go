// Package markup converts the HTML bodies of Q&A posts to plain markdown.
//
// The conversion is a fixed sequence of rewrites rather than a full HTML
// parse: code blocks first, then inline code, links and images, then
// paragraph breaks, and finally every remaining tag is dropped.
package markup

import (
	"regexp"
	"strings"
)

var (
	preCodePattern  = regexp.MustCompile(`(?is)<pre><code>(.*?)</code></pre>`)
	codePattern     = regexp.MustCompile(`(?i)<code>(.*?)</code>`)
	anchorPattern   = regexp.MustCompile(`(?i)<a [^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
	imagePattern    = regexp.MustCompile(`(?i)<img [^>]*alt="([^"]*)"[^>]*src="([^"]+)"[^>]*/?>`)
	paragraphOpen   = regexp.MustCompile(`(?i)<p>`)
	paragraphClose  = regexp.MustCompile(`(?i)</p>`)
	lineBreak       = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag          = regexp.MustCompile(`<[^>]+>`)
	repeatedNewline = regexp.MustCompile(`\n{3,}`)
)

// CodeLanguage is the info string attached to fenced code blocks.
const CodeLanguage = "python"

// ToMarkdown converts html to markdown. The result is trimmed.
func ToMarkdown(html string) string {
	s := html

	s = replaceGroups(preCodePattern, s, func(g []string) string {
		return "\n```" + CodeLanguage + "\n" + decodeCode(g[1]) + "\n```\n"
	})
	s = replaceGroups(codePattern, s, func(g []string) string {
		return "`" + decodeCode(g[1]) + "`"
	})
	s = replaceGroups(anchorPattern, s, func(g []string) string {
		return "[" + g[2] + "](" + g[1] + ")"
	})
	s = replaceGroups(imagePattern, s, func(g []string) string {
		return "![" + g[1] + "](" + g[2] + ")"
	})

	s = paragraphOpen.ReplaceAllLiteralString(s, "\n")
	s = paragraphClose.ReplaceAllLiteralString(s, "\n")
	s = lineBreak.ReplaceAllLiteralString(s, "\n")

	s = anyTag.ReplaceAllLiteralString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = decodeCode(s)

	s = repeatedNewline.ReplaceAllLiteralString(s, "\n\n")
	return strings.TrimSpace(s)
}

// decodeCode decodes the entities escaped inside code samples, ampersand last.
func decodeCode(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return strings.ReplaceAll(s, "&amp;", "&")
}

func replaceGroups(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}
