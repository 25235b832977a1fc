// Package quality scores source text against a weighted checklist of
// lightweight heuristics. The heuristics are intentionally approximate
// (textual and regex checks, not a parser-backed analysis) and degrade
// gracefully: empty or malformed content scores zero rather than erroring.
package quality

import (
	"regexp"
	"strings"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// Criterion names, fixed. Weights sum to MaxScore.
const (
	HasDocstring         = "has_docstring"
	HasTypeHints         = "has_type_hints"
	GoodCommentRatio     = "good_comment_ratio"
	ReasonableLineLength = "reasonable_line_length"
	NoWildcardImports    = "no_wildcard_imports"
	HasFunctionsClasses  = "has_functions_or_classes"
	GoodNaming           = "good_naming"
	NoBareExcept         = "no_bare_except"
	NoEvalExec           = "no_eval_exec"
	ReasonableComplexity = "reasonable_complexity"
	HasExceptionHandling = "has_exception_handling"
	NoMagicNumbers       = "no_magic_numbers"
)

// Weights assigns each criterion its contribution to the score.
var Weights = map[string]int{
	HasDocstring:         10,
	HasTypeHints:         8,
	GoodCommentRatio:     7,
	ReasonableLineLength: 5,
	NoWildcardImports:    5,
	HasFunctionsClasses:  5,
	GoodNaming:           5,
	NoBareExcept:         4,
	NoEvalExec:           4,
	ReasonableComplexity: 4,
	HasExceptionHandling: 3,
	NoMagicNumbers:       2,
}

// MaxScore is the sum of all criterion weights. Both Score and ScoreFast
// produce percentages against this same maximum so star bands are
// comparable across cache tiers.
const MaxScore = 62

var (
	typeHintRe   = regexp.MustCompile(`def \w+\([^)]*:\s*\w+`)
	identifierRe = regexp.MustCompile(`(?i)\b([a-z_][a-z0-9_]*)\b`)
	magicNumRe   = regexp.MustCompile(`[^0-9_]([2-9]\d{2,}|[1-9]\d{3,})[^0-9_]`)
)

// shortNameAllowList are single-letter identifiers that still count as good
// naming (loop counters and coordinates).
var shortNameAllowList = map[string]bool{
	"i": true, "j": true, "k": true, "x": true, "y": true, "n": true,
}

// Score runs the full 12-criterion checklist over the content and returns
// the weighted score with the per-criterion results. Empty content yields
// score 0 and an empty checklist.
func Score(content string) (int, types.Checklist) {
	if content == "" {
		return 0, types.Checklist{}
	}

	lines := strings.Split(content, "\n")
	results := make(types.Checklist, len(Weights))

	results[HasDocstring] = strings.Contains(content, `"""`) || strings.Contains(content, "'''")
	results[HasTypeHints] = typeHintRe.MatchString(content) || strings.Contains(content, "->")

	commentLines, codeLines := 0, 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		switch {
		case t == "":
		case strings.HasPrefix(t, "#"):
			commentLines++
		default:
			codeLines++
		}
	}
	if codeLines > 0 {
		ratio := float64(commentLines) / float64(codeLines)
		results[GoodCommentRatio] = ratio >= 0.05 && ratio <= 0.4
	} else {
		results[GoodCommentRatio] = false
	}

	longLines := 0
	for _, l := range lines {
		if len(l) > 120 {
			longLines++
		}
	}
	results[ReasonableLineLength] = float64(longLines) < float64(len(lines))*0.1

	results[NoWildcardImports] = !strings.Contains(content, "import *")
	results[HasFunctionsClasses] = strings.Contains(content, "def ") || strings.Contains(content, "class ")
	results[GoodNaming] = goodNaming(content)
	results[NoBareExcept] = !strings.Contains(content, "except:")
	results[NoEvalExec] = !strings.Contains(content, "eval(") && !strings.Contains(content, "exec(")
	results[HasExceptionHandling] = strings.Contains(content, "try:") && strings.Contains(content, "except")
	results[ReasonableComplexity] = maxIndentDepth(lines) <= 5
	results[NoMagicNumbers] = len(magicNumRe.FindAllString(content, -1)) < 5

	score := 0
	for name, ok := range results {
		if ok {
			score += Weights[name]
		}
	}
	return score, results
}

// ScoreFast computes a cheap 5-criterion estimate for the scanned tier.
// It can disagree with Score in star band for the same record; the two-speed
// approximation is deliberate so already-cached entries keep their displayed
// rating.
func ScoreFast(content string) int {
	if content == "" {
		return 0
	}

	score := 0
	if strings.Contains(content, `"""`) || strings.Contains(content, "'''") {
		score += Weights[HasDocstring]
	}
	if strings.Contains(content, ": ") && strings.Contains(content, "->") {
		score += Weights[HasTypeHints]
	}
	if !strings.Contains(content, "from ") || !strings.Contains(content, "import *") {
		score += Weights[NoWildcardImports]
	}
	if strings.Contains(content, "def ") || strings.Contains(content, "class ") {
		score += Weights[HasFunctionsClasses]
	}
	if !strings.Contains(content, "eval(") && !strings.Contains(content, "exec(") {
		score += Weights[NoEvalExec]
	}
	return score
}

// Percent converts a score to a whole percentage of MaxScore.
func Percent(score int) int {
	return score * 100 / MaxScore
}

// ScoreChecklist recomputes a weighted score from a checklist.
func ScoreChecklist(checklist types.Checklist) int {
	score := 0
	for name, ok := range checklist {
		if ok {
			score += Weights[name]
		}
	}
	return score
}

// goodNaming checks that over 80% of identifiers are longer than one
// character or on the short-name allow list. The near-always-true looseness
// matches the established scoring behavior and is kept as-is.
func goodNaming(content string) bool {
	matches := identifierRe.FindAllString(content, -1)
	if len(matches) == 0 {
		return true
	}
	good := 0
	for _, id := range matches {
		if len(id) > 1 || shortNameAllowList[id] {
			good++
		}
	}
	return float64(good)/float64(len(matches)) > 0.8
}

// maxIndentDepth measures the deepest indentation in 4-space levels over
// non-blank lines.
func maxIndentDepth(lines []string) int {
	depth := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := (len(l) - len(strings.TrimLeft(l, " \t"))) / 4
		if indent > depth {
			depth = indent
		}
	}
	return depth
}
