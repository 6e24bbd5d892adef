// Package resolver maps slide display titles back to their source files.
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// slidesRelDir is where generated slide sources live, relative to the project root.
const slidesRelDir = "src/pages/slides"

var (
	// registerTitleRe extracts the title from a RegisterSlide({ title: "...", ... }) call.
	registerTitleRe = regexp.MustCompile(`RegisterSlide\s*\(\s*\{[^}]*title\s*:\s*["']([^"']+)["']`)
	nonASCIIRe      = regexp.MustCompile(`[^\x00-\x7F]+`)
	punctuationRe   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Resolve maps a slide title to its probable source file under
// src/pages/slides. Titles may mix Chinese and English; the exact strategy
// compares the embedded RegisterSlide title, and the fallback scores filename
// keywords against the English residue of the title.
//
// Candidates are scored in lexicographic filename order so ties resolve
// deterministically. This is a best-effort heuristic: the second return value
// is false when no confident match exists.
func Resolve(title, projectDir string) (string, bool) {
	slidesDir := filepath.Join(projectDir, "src", "pages", "slides")
	names, err := slideFileNames(slidesDir)
	if err != nil || len(names) == 0 {
		return "", false
	}

	// Strategy 1: match the title embedded in the registration call.
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(slidesDir, name))
		if err != nil {
			continue
		}
		if m := registerTitleRe.FindSubmatch(content); m != nil && string(m[1]) == title {
			return path.Join(slidesRelDir, name), true
		}
	}

	// Strategy 2: keyword scoring over the English residue of the title.
	english := strings.TrimSpace(nonASCIIRe.ReplaceAllString(title, " "))
	normalized := strings.ToLower(strings.TrimSpace(punctuationRe.ReplaceAllString(english, " ")))

	var keywords []string
	for _, word := range strings.Fields(normalized) {
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}
	if len(keywords) == 0 {
		return "", false
	}

	compact := strings.ReplaceAll(strings.Join(strings.Fields(normalized), " "), " ", "")
	joined := strings.Join(keywords, "")

	best := ""
	bestScore := 0
	for _, name := range names {
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		stemWithoutSlide := strings.ReplaceAll(stem, "slide", "")

		// Compact equality short-circuits the scoring.
		if compact != "" && (stemWithoutSlide == compact || stem == compact) {
			return path.Join(slidesRelDir, name), true
		}

		score := 0
		for _, keyword := range keywords {
			if strings.Contains(stem, keyword) {
				score += len(keyword)
			}
		}
		// Concatenated keywords matching a CamelCase filename pattern count double.
		if joined != "" && strings.Contains(stem, joined) {
			score += 2 * len(joined)
		}

		if score > bestScore {
			bestScore = score
			best = name
		}
	}

	if bestScore > 0 {
		return path.Join(slidesRelDir, best), true
	}
	return "", false
}

// slideFileNames lists the .tsx slide sources in lexicographic order.
func slideFileNames(slidesDir string) ([]string, error) {
	entries, err := os.ReadDir(slidesDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tsx") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
