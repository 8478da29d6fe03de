// Package format holds the message formatting helpers the front-ends use
// when relaying agent responses over channels with length limits.
package format

import "strings"

// Split breaks a long message into chunks of at most maxLength characters,
// preferring natural boundaries (code fences, blank lines, newlines,
// spaces). A code block cut by a split is closed at the end of the chunk
// and reopened at the start of the next so every chunk renders cleanly.
func Split(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	remaining := text

	for remaining != "" {
		if len(remaining) <= maxLength {
			chunks = append(chunks, remaining)
			break
		}

		splitAt := findSplitPoint(remaining, maxLength)
		chunk := strings.TrimRight(remaining[:splitAt], " \t\n")
		remaining = strings.TrimLeft(remaining[splitAt:], "\n")

		// An odd number of fences means we cut inside a code block.
		if strings.Count(chunk, "```")%2 != 0 {
			chunk += "\n```"
			remaining = "```\n" + remaining
		}

		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}

// findSplitPoint picks the best position to split text at, never past
// maxLength.
func findSplitPoint(text string, maxLength int) int {
	// Prefer a code fence boundary in the later half.
	if last := strings.LastIndex(text[:maxLength], "```\n"); last > maxLength/2 {
		if nl := strings.Index(text[last+3:], "\n"); nl != -1 && last+3+nl <= maxLength {
			return last + 3 + nl + 1
		}
	}

	if last := strings.LastIndex(text[:maxLength], "\n\n"); last > maxLength/2 {
		return last + 1
	}
	if last := strings.LastIndex(text[:maxLength], "\n"); last > maxLength/3 {
		return last + 1
	}
	if last := strings.LastIndex(text[:maxLength], " "); last > maxLength/3 {
		return last + 1
	}

	return maxLength
}

// Truncate bounds text to maxLength, appending suffix when anything was cut.
func Truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-len(suffix)] + suffix
}

// CodeBlock wraps content in a fenced code block with an optional language
// tag.
func CodeBlock(content, language string) string {
	return "```" + language + "\n" + content + "\n```"
}
