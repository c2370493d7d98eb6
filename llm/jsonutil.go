// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"regexp"
	"strings"
)

// fencePattern matches a reply that is exactly one markdown code block.
var fencePattern = regexp.MustCompile("(?s)\\A```(?:json|JSON)?[ \\t]*\\n(.*)\\n[ \\t]*```\\z")

// UnwrapFence returns the body of a reply that consists of a single markdown
// code block, or the trimmed reply unchanged. Nothing else is repaired:
// surrounding prose or invalid JSON is left for the decoder to reject.
func UnwrapFence(content string) string {
	s := strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
