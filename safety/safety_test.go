package safety

import (
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	checker := NewChecker()

	tests := []struct {
		name            string
		question        string
		answer          string
		wantSafe        bool
		wantCanOverride bool
		wantWarning     bool
	}{
		{
			name:     "clean pair",
			question: "বাংলাদেশের রাজধানী কি?",
			answer:   "ঢাকা বাংলাদেশের রাজধানী",
			wantSafe: true,
		},
		{
			name:     "empty question",
			question: "   ",
			answer:   "উত্তর এখানে",
			wantSafe: false,
		},
		{
			name:     "empty answer",
			question: "প্রশ্ন",
			answer:   "",
			wantSafe: false,
		},
		{
			name:     "answer too short",
			question: "প্রশ্ন",
			answer:   "না",
			wantSafe: false,
		},
		{
			name:            "answer too long is overridable",
			question:        "প্রশ্ন",
			answer:          strings.Repeat("ক", MaxAnswerLength+1),
			wantSafe:        true,
			wantCanOverride: true,
			wantWarning:     true,
		},
		{
			name:     "banned word in answer",
			question: "প্রশ্ন",
			answer:   "এটা সম্পূর্ণ গুজব",
			wantSafe: false,
		},
		{
			name:     "banned word in question",
			question: "মিথ্যা খবর কোথায় পাব?",
			answer:   "ভালো একটি উত্তর",
			wantSafe: false,
		},
		{
			name:            "sensitive topic warns but passes",
			question:        "প্রশ্ন",
			answer:          "রাজনীতি নিয়ে আলোচনা",
			wantSafe:        true,
			wantCanOverride: true,
			wantWarning:     true,
		},
		{
			name:            "url warns but passes",
			question:        "প্রশ্ন",
			answer:          "বিস্তারিত https://example.com দেখুন",
			wantSafe:        true,
			wantCanOverride: true,
			wantWarning:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.Check(tt.question, tt.answer)
			if got.Safe != tt.wantSafe {
				t.Errorf("Check().Safe = %v, want %v (reason: %s)", got.Safe, tt.wantSafe, got.Reason)
			}
			if got.CanOverride != tt.wantCanOverride {
				t.Errorf("Check().CanOverride = %v, want %v", got.CanOverride, tt.wantCanOverride)
			}
			if got.Warning != tt.wantWarning {
				t.Errorf("Check().Warning = %v, want %v", got.Warning, tt.wantWarning)
			}
			if got.Reason == "" {
				t.Error("Check().Reason is empty")
			}
		})
	}
}

func TestCheckIsPure(t *testing.T) {
	checker := NewChecker()
	first := checker.Check("প্রশ্ন", "এটা সম্পূর্ণ গুজব")
	second := checker.Check("প্রশ্ন", "এটা সম্পূর্ণ গুজব")
	if first != second {
		t.Errorf("identical inputs gave different verdicts: %+v vs %+v", first, second)
	}
}

func TestCheckBannedWordAlwaysWins(t *testing.T) {
	checker := NewChecker()

	// A banned word must veto even when sensitive topics and URLs are also
	// present, and the verdict must never be overridable.
	got := checker.Check("রাজনীতি প্রশ্ন", "গুজব ছড়াচ্ছে https://example.com")
	if got.Safe {
		t.Error("expected unsafe verdict for banned word")
	}
	if got.CanOverride {
		t.Error("banned word verdict must not be overridable")
	}
	if !strings.Contains(got.Reason, "গুজব") {
		t.Errorf("reason should name the offending term, got %q", got.Reason)
	}
}

func TestCheckRuleOrder(t *testing.T) {
	checker := NewChecker()

	// Length rules are evaluated before content rules: a too-short answer
	// reports the length even when the question carries a banned word.
	got := checker.Check("গুজব কি?", "না")
	if got.Safe {
		t.Error("expected unsafe verdict")
	}
	if strings.Contains(got.Reason, "নিষিদ্ধ") {
		t.Errorf("expected length reason, got %q", got.Reason)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips html tags",
			input: "<p>ঢাকা একটি <b>শহর</b></p>",
			want:  "ঢাকা একটি শহর",
		},
		{
			name:  "collapses whitespace",
			input: "ঢাকা   একটি \n\t শহর",
			want:  "ঢাকা একটি শহর",
		},
		{
			name:  "removes disallowed characters",
			input: "ঢাকা@#$ একটি শহর%^&",
			want:  "ঢাকা একটি শহর",
		},
		{
			name:  "keeps basic punctuation",
			input: "ঢাকা, একটি শহর! তাই না?",
			want:  "ঢাকা, একটি শহর! তাই না?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	short := "ছোট উত্তর"
	if got := Truncate(short); got != short {
		t.Errorf("Truncate should not change short answers, got %q", got)
	}

	long := strings.Repeat("ক", MaxAnswerLength+50)
	got := Truncate(long)
	if n := len([]rune(got)); n != MaxAnswerLength {
		t.Errorf("Truncate length = %d, want %d", n, MaxAnswerLength)
	}
}
