// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"regexp"
	"strings"
)

const (
	hintPrefix = "(DC2Type:"
	hintSuffix = ")"
)

var hintPattern = regexp.MustCompile(`\(DC2Type:([^)]+)\)`)

// CommentHint returns the marker stored in a column comment for the type
// name, e.g. "(DC2Type:uuid)".
func CommentHint(name string) string {
	return hintPrefix + name + hintSuffix
}

// ParseCommentHint extracts the type name from a column comment. rest is
// the comment with the marker removed and trimmed.
func ParseCommentHint(comment string) (name, rest string, ok bool) {
	loc := hintPattern.FindStringSubmatchIndex(comment)
	if loc == nil {
		return "", strings.TrimSpace(comment), false
	}
	name = comment[loc[2]:loc[3]]
	rest = strings.TrimSpace(comment[:loc[0]] + comment[loc[1]:])
	return name, rest, true
}

// AppendCommentHint adds the marker for name to a user comment.
func AppendCommentHint(comment, name string) string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return CommentHint(name)
	}
	return comment + " " + CommentHint(name)
}
