package jiggasa

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/banglabot/jiggasa/storage"
)

// Response type tags, one per resolver tier.
const (
	TypeBaseKnowledge = "base_knowledge"
	TypeLearnedSmart  = "learned_smart"
	TypeLearned       = "learned"
	TypeWebSearch     = "web_search"
	TypeAIGenerated   = "ai_generated"
)

// Response is the engine's answer to a query.
type Response struct {
	Response  string    `json:"response"`
	Type      string    `json:"type"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// patternCategory is one static-response category: any trigger substring in
// the case-folded query selects a random response from the category.
type patternCategory struct {
	triggers  []string
	responses []string
}

var patternTable = []patternCategory{
	{
		triggers: []string{"হ্যালো", "হাই", "নমস্কার", "আসসালামু আলাইকুম"},
		responses: []string{
			"হ্যালো! আমি জিজ্ঞাসা, বাংলা চ্যাটবট।",
			"নমস্কার! কিভাবে সাহায্য করতে পারি?",
		},
	},
	{
		triggers: []string{"তোমার নাম কি", "তোমার নাম কী"},
		responses: []string{
			"আমার নাম জিজ্ঞাসা।",
			"আমাকে জিজ্ঞাসা বলে ডাকতে পারেন!",
		},
	},
	{
		triggers: []string{"ধন্যবাদ"},
		responses: []string{
			"আপনাকেও ধন্যবাদ!",
			"কিছু মনে করবেন না!",
		},
	},
}

var fallbackResponses = []string{
	"দুঃখিত, উত্তর জানি না। আপনি আমাকে শেখাতে পারেন!",
	"এই প্রশ্নের উত্তর এখনো শিখিনি। শিখিয়ে দিলে মনে রাখব!",
	"জানা নেই, দুঃখিত। আমাকে শেখালে পরেরবার বলতে পারব।",
}

// Resolve answers a question by walking the tier chain and stopping at the
// first tier that yields an answer. allowSearch gates the web tier per
// request; the process-wide quota gate applies on top of it.
func (e *Engine) Resolve(ctx context.Context, question, userID string, allowSearch bool) *Response {
	question = strings.TrimSpace(question)

	if answer, ok := e.resolvePattern(question); ok {
		return newResponse(answer, TypeBaseKnowledge, nil)
	}

	if answer, ok := e.learner.AutoAnswer(ctx, question); ok {
		return newResponse(answer, TypeLearnedSmart, nil)
	}

	answer, err := e.store.Lookup(ctx, question)
	if err == nil {
		return newResponse(answer, TypeLearned, nil)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		e.logger.Error("knowledge lookup failed", "err", err)
	}

	if allowSearch && e.search != nil {
		if resp := e.resolveWeb(ctx, question, userID); resp != nil {
			return resp
		}
	}

	return newResponse(fallbackResponses[rand.IntN(len(fallbackResponses))], TypeAIGenerated, nil)
}

// resolvePattern matches the query against the static pattern table.
func (e *Engine) resolvePattern(question string) (string, bool) {
	folded := strings.ToLower(question)
	for _, cat := range patternTable {
		for _, trigger := range cat.triggers {
			if strings.Contains(folded, trigger) {
				return cat.responses[rand.IntN(len(cat.responses))], true
			}
		}
	}
	return "", false
}

// resolveWeb runs the search tier: quota gate, search, candidate scoring,
// summarization, then auto-learn of the result. Any failure returns nil and
// the caller falls through to the fallback tier; search is never retried
// within a request.
func (e *Engine) resolveWeb(ctx context.Context, question, userID string) *Response {
	if !e.gate.Allow() {
		e.logger.Info("search quota exhausted, skipping web tier")
		return nil
	}

	candidates, err := e.search.Search(ctx, question+" বাংলায়", 3)
	if err != nil {
		e.logger.Warn("web search failed", "err", err)
		return nil
	}

	best := scoreCandidates(question, candidates)
	if best == nil {
		return nil
	}

	answer := summarize(question, cleanContent(best.Content))
	if answer == "" {
		return nil
	}

	if err := e.AutoLearn(ctx, question, answer, "web_search", userID); err != nil {
		e.logger.Warn("absorbing web answer failed", "err", err)
	}

	sources := make([]string, 0, 2)
	for _, c := range candidates {
		sources = append(sources, c.URL)
		if len(sources) == 2 {
			break
		}
	}
	return newResponse(answer, TypeWebSearch, sources)
}

func newResponse(text, responseType string, sources []string) *Response {
	return &Response{
		Response:  text,
		Type:      responseType,
		Sources:   sources,
		Timestamp: time.Now(),
	}
}
