package tool

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// unifiedDiff computes a unified diff between before and after, labeled
// with path. Returns "" when the contents are identical.
func unifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(before, diffs)
	text := dmp.PatchToText(patches)
	if text == "" {
		return ""
	}

	var b2 strings.Builder
	fmt.Fprintf(&b2, "--- %s\n+++ %s\n", path, path)
	b2.WriteString(text)
	return b2.String()
}

// lossyPreview truncates data to maxBytes raw bytes, then decodes it as
// UTF-8, replacing invalid sequences with U+FFFD. Used by
// include_file/include_url/discovery.read and files.write's previews.
func lossyPreview(data []byte, maxBytes int) string {
	if maxBytes > 0 && len(data) > maxBytes {
		data = data[:maxBytes]
	}
	return strings.ToValidUTF8(string(data), "�")
}
