// Package match pairs local image files with remote content entries.
// A keyword-overlap scorer is the guaranteed method; an optional semantic
// matcher is consulted first and short-circuits it when it picks a name.
package match

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/hyggehome/imagesync/internal/cms"
	"github.com/hyggehome/imagesync/internal/scanner"
)

// Method tags how a match was produced.
type Method string

// Match methods.
const (
	MethodKeyword  Method = "keyword"
	MethodSemantic Method = "semantic"
	MethodManual   Method = "manual"
)

// Scoring thresholds for the keyword method. Coverage at exactly the
// threshold is accepted.
const (
	entryCoverageThreshold = 0.3
	imageCoverageThreshold = 0.4

	// semanticConfidence is the fixed confidence assigned to semantic picks.
	semanticConfidence = 0.8
)

// Result is a confidence-scored pairing of one image with one entry.
// Confidence is always in (0, 1].
type Result struct {
	ImagePath  string
	EntryID    string
	EntryName  string
	Confidence float64
	Method     Method
}

// Semantic picks the best entry name for a filename from an enumerated list,
// returning "" when none fits. Errors never fail a match; the keyword
// method takes over.
type Semantic interface {
	Pick(ctx context.Context, filename string, names []string) (string, error)
}

// Engine matches images against a fixed entry list. The zero value uses the
// keyword method only.
type Engine struct {
	Semantic Semantic
	Log      zerolog.Logger
}

// Match pairs img with at most one entry. The boolean is false when no
// entry clears a threshold; a zero-confidence Result is never returned.
// Candidates are scanned in list order and the first above threshold wins,
// so the result depends on entry order.
func (e *Engine) Match(ctx context.Context, img scanner.ImageFile, entries []cms.Entry) (Result, bool) {
	if result, ok := e.matchSemantic(ctx, img, entries); ok {
		return result, true
	}
	return e.matchKeyword(img, entries)
}

// matchSemantic consults the optional semantic matcher. Any failure or
// "none" answer falls through to the keyword method silently.
func (e *Engine) matchSemantic(ctx context.Context, img scanner.ImageFile, entries []cms.Entry) (Result, bool) {
	if e.Semantic == nil || len(entries) == 0 {
		return Result{}, false
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}

	pick, err := e.Semantic.Pick(ctx, img.Filename, names)
	if err != nil {
		e.Log.Warn().Str("image", img.Filename).Err(err).Msg("semantic matcher failed, falling back to keywords")
		return Result{}, false
	}
	if pick == "" {
		return Result{}, false
	}

	for _, entry := range entries {
		if entry.Name == pick {
			return Result{
				ImagePath:  img.Path,
				EntryID:    entry.ID,
				EntryName:  entry.Name,
				Confidence: semanticConfidence,
				Method:     MethodSemantic,
			}, true
		}
	}

	e.Log.Warn().Str("image", img.Filename).Str("pick", pick).Msg("semantic pick names no known entry, falling back to keywords")
	return Result{}, false
}

// matchKeyword scans entries in order and returns on the first one whose
// coverage clears a threshold in either direction.
func (e *Engine) matchKeyword(img scanner.ImageFile, entries []cms.Entry) (Result, bool) {
	imgTokens := Normalize(img.Filename)
	if len(imgTokens) == 0 {
		return Result{}, false
	}

	for _, entry := range entries {
		entryTokens := Normalize(entry.Name)
		if len(entryTokens) == 0 {
			continue
		}

		entryCoverage := coverage(entryTokens, imgTokens)
		imageCoverage := coverage(imgTokens, entryTokens)

		if entryCoverage >= entryCoverageThreshold || imageCoverage >= imageCoverageThreshold {
			confidence := entryCoverage
			if imageCoverage > confidence {
				confidence = imageCoverage
			}
			if confidence > 1 {
				confidence = 1
			}
			return Result{
				ImagePath:  img.Path,
				EntryID:    entry.ID,
				EntryName:  entry.Name,
				Confidence: confidence,
				Method:     MethodKeyword,
			}, true
		}
	}

	return Result{}, false
}

// coverage is the fraction of want tokens that overlap some have token.
func coverage(want, have []string) float64 {
	matched := 0
	for _, w := range want {
		for _, h := range have {
			if tokensOverlap(w, h) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(want))
}

// tokensOverlap relaxes exact token equality with substring containment and
// a shared 3-letter prefix, so pluralization and light typos still match.
func tokensOverlap(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return len(a) >= 3 && len(b) >= 3 && a[:3] == b[:3]
}

var fold = cases.Fold()

// Normalize turns a filename or display name into its keyword set: the
// image extension is stripped, the rest is case-folded and split on
// non-alphanumeric separators, and duplicates are dropped preserving order.
func Normalize(s string) []string {
	if scanner.IsImage(s) {
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}
	s = fold.String(s)

	raw := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
	}
	return tokens
}
