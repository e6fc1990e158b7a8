package jiggasa

import (
	"regexp"
	"strings"

	"github.com/banglabot/jiggasa/websearch"
)

const (
	// bengaliCharBonus rewards candidates carrying substantial Bengali text.
	bengaliCharBonus     = 3
	bengaliCharThreshold = 20

	// summaryBudget bounds a summarized answer when no sentence qualifies.
	summaryBudget    = 300
	summarySentences = 3
)

// boilerplatePhrases are stripped from scraped content before summarization.
var boilerplatePhrases = []string{
	"মেনু",
	"লগইন",
	"লগ ইন",
	"সাইন আপ",
	"নিবন্ধন করুন",
	"কুকি",
	"কপিরাইট",
	"সর্বস্বত্ব সংরক্ষিত",
	"বিজ্ঞাপন",
	"আরও পড়ুন",
	"শেয়ার করুন",
	"menu",
	"login",
	"sign up",
	"subscribe",
	"cookie",
	"copyright",
	"all rights reserved",
	"advertisement",
	"read more",
	"share",
}

// scoreCandidates picks the candidate whose content best matches the query:
// one point per query word present, plus a bonus for substantial Bengali
// text. Ties keep the first-seen candidate. Returns nil for an empty set.
func scoreCandidates(query string, candidates []websearch.Candidate) *websearch.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	words := strings.Fields(strings.ToLower(query))

	var best *websearch.Candidate
	bestScore := -1
	for i := range candidates {
		content := strings.ToLower(candidates[i].Content)

		score := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				score++
			}
		}
		if countBengaliRunes(candidates[i].Content) > bengaliCharThreshold {
			score += bengaliCharBonus
		}

		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	return best
}

var boilerplatePattern = func() *regexp.Regexp {
	quoted := make([]string, len(boilerplatePhrases))
	for i, p := range boilerplatePhrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}()

// cleanContent strips boilerplate phrases and collapses whitespace.
func cleanContent(content string) string {
	content = boilerplatePattern.ReplaceAllString(content, " ")
	return strings.Join(strings.Fields(content), " ")
}

// summarize reduces content to an answer-sized snippet. Short content passes
// through. Longer content is split into sentences and only sentences sharing
// a word with the query are kept, up to summarySentences; when none qualify
// the content is truncated to summaryBudget runes with an ellipsis marker.
func summarize(query, content string) string {
	runes := []rune(content)
	if len(runes) <= summaryBudget {
		return content
	}

	words := strings.Fields(strings.ToLower(query))
	var kept []string
	for _, sentence := range splitSentences(content) {
		folded := strings.ToLower(sentence)
		for _, w := range words {
			if strings.Contains(folded, w) {
				kept = append(kept, sentence)
				break
			}
		}
		if len(kept) == summarySentences {
			break
		}
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}

	return string(runes[:summaryBudget]) + "..."
}

// splitSentences splits on Bengali and Latin sentence terminators, keeping
// the terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder
	for _, r := range text {
		sb.WriteRune(r)
		switch r {
		case '.', '!', '?', '।':
			if s := strings.TrimSpace(sb.String()); s != "" {
				sentences = append(sentences, s)
			}
			sb.Reset()
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func countBengaliRunes(text string) int {
	count := 0
	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			count++
		}
	}
	return count
}
