// Copyright 2025 The Jiggasa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package safety implements the content-moderation gate that guards every
// write into long-term memory.
//
// The gate is a pure policy: Check has no side effects and never mutates the
// content it inspects. Callers that receive an overridable verdict (for
// example an over-long answer) are responsible for acting on it before
// storing.
package safety

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Answer length bounds, in runes.
const (
	MinAnswerLength = 3
	MaxAnswerLength = 1000
)

// Result is the verdict of a content check.
// CanOverride reports whether the caller may proceed despite the reason
// (after acting on it, e.g. truncating). Warning marks verdicts that are safe
// but worth surfacing to the user.
type Result struct {
	Safe        bool
	Reason      string
	CanOverride bool
	Warning     bool
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	urlPattern     = regexp.MustCompile(`http[s]?://`)

	// Word characters, the Bengali block, whitespace, and basic punctuation.
	disallowedPattern = regexp.MustCompile(`[^\w\x{0980}-\x{09FF}\s.,!?-]`)
)

// Checker evaluates question/answer pairs against fixed moderation rules.
// The zero value is not usable; construct with NewChecker.
type Checker struct {
	bannedWords     []string
	sensitiveTopics []string
}

// NewChecker creates a Checker with the default Bengali rule lists.
func NewChecker() *Checker {
	return &Checker{
		bannedWords: []string{
			"মিথ্যা", "গুজব", "অপপ্রচার", "ঘৃণা", "বিদ্বেষ",
			"অশ্লীল", "অভদ্র", "খারাপ", "ভুল", "বানোয়াট",
			"মিথ্যা খবর", "ফেইক", "জালিয়াতি",
		},
		sensitiveTopics: []string{
			"রাজনীতি", "ধর্ম", "জাতিগত", "সন্ত্রাস", "হিংসা",
			"বোমা", "আতঙ্ক", "দাঙ্গা",
		},
	}
}

// Check evaluates a question/answer pair. Rules are evaluated in order and
// the first matching rule decides the verdict:
//
//  1. empty question or answer: unsafe
//  2. answer shorter than MinAnswerLength: unsafe
//  3. answer longer than MaxAnswerLength: safe, overridable, truncation warning
//  4. banned word in the combined text: unsafe
//  5. sensitive topic in the combined text: safe, overridable, warning
//  6. URL in the answer: safe, overridable, warning
//  7. otherwise: safe
//
// Check is a pure function of its inputs.
func (c *Checker) Check(question, answer string) Result {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	if question == "" || answer == "" {
		return Result{
			Safe:   false,
			Reason: "প্রশ্ন বা উত্তর খালি থাকতে পারে না",
		}
	}

	if utf8.RuneCountInString(answer) < MinAnswerLength {
		return Result{
			Safe:   false,
			Reason: fmt.Sprintf("উত্তর খুব ছোট (কমপক্ষে %d অক্ষর)", MinAnswerLength),
		}
	}

	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return Result{
			Safe:        true,
			Reason:      fmt.Sprintf("উত্তর খুব বড় (%d অক্ষরে কাটা হবে)", MaxAnswerLength),
			CanOverride: true,
			Warning:     true,
		}
	}

	combined := strings.ToLower(question + " " + answer)

	for _, word := range c.bannedWords {
		if strings.Contains(combined, word) {
			return Result{
				Safe:   false,
				Reason: fmt.Sprintf("নিষিদ্ধ শব্দ পাওয়া গেছে: '%s'", word),
			}
		}
	}

	var matched []string
	for _, topic := range c.sensitiveTopics {
		if strings.Contains(combined, topic) {
			matched = append(matched, topic)
		}
	}
	if len(matched) > 0 {
		return Result{
			Safe:        true,
			Reason:      fmt.Sprintf("সতর্কতা: %s বিষয় সংবলিত", strings.Join(matched, ", ")),
			CanOverride: true,
			Warning:     true,
		}
	}

	if urlPattern.MatchString(answer) {
		return Result{
			Safe:        true,
			Reason:      "উত্তরে লিংক পাওয়া গেছে",
			CanOverride: true,
			Warning:     true,
		}
	}

	return Result{
		Safe:   true,
		Reason: "সবকিছু ঠিক আছে",
	}
}

// Sanitize strips HTML-like tags, collapses whitespace, and restricts the
// text to word characters, the Bengali block, and basic punctuation.
// Callers may apply it before storage; Check never does.
func Sanitize(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")
	text = disallowedPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Truncate shortens an answer to MaxAnswerLength runes. It is the companion
// to the overridable over-length verdict from Check.
func Truncate(answer string) string {
	runes := []rune(answer)
	if len(runes) <= MaxAnswerLength {
		return answer
	}
	return string(runes[:MaxAnswerLength])
}
