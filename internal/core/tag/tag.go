// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag manages the free-form labels attached to posts.

Tag values are normalized before they are stored or looked up, so "Go",
" go " and "GO" all resolve to the same tag. Writers reference tags by value;
unknown values are created on the fly.
*/
package tag

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/blango/internal/platform/validate"
)

// MaxValueLen is the maximum number of characters in a tag value.
const MaxValueLen = 100

// Field names used in validation errors.
const (
	FieldValue = "value"
	FieldTags  = "tags"
)

// Tag is a normalized label.
type Tag struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

var lower = cases.Lower(language.Und)

// Normalize trims, NFC-normalizes and lower-cases a tag value.
//
// Empty values and values longer than [MaxValueLen] are rejected with a
// validation error on field.
func Normalize(field, raw string) (string, error) {
	value := lower.String(norm.NFC.String(strings.TrimSpace(raw)))

	switch {
	case value == "":
		return "", validate.RequiredError(field, "Tag values may not be blank")
	case utf8.RuneCountInString(value) > MaxValueLen:
		return "", validate.RequiredError(field, fmt.Sprintf("Tag values are limited to %d characters", MaxValueLen))
	}

	return value, nil
}

// ParseValues decodes the "tags" member of a write payload.
//
// The payload must be a JSON array of strings. The result is normalized and
// de-duplicated, keeping first-seen order. A missing or null member yields
// (nil, nil) so partial updates can leave tags untouched.
func ParseValues(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, validate.RequiredError(FieldTags, "Expected a list of tag values")
	}

	values := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			return nil, validate.RequiredError(FieldTags, "Tag values must be strings")
		}

		value, err := Normalize(FieldTags, text)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values, nil
}
