package content

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// stopwords are excluded from repetition phrases and alt-text word counts.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"being": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "not": true, "no": true,
	"and": true, "or": true, "but": true, "if": true, "then": true,
	"than": true, "so": true, "as": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "into": true, "of": true,
	"on": true, "to": true, "with": true, "about": true, "up": true,
	"out": true, "it": true, "its": true, "this": true, "that": true,
	"what": true, "which": true, "who": true, "how": true, "when": true,
	"where": true, "why": true, "you": true, "me": true, "i": true,
	"my": true, "your": true, "we": true, "our": true, "they": true,
	"he": true, "she": true, "her": true, "him": true, "us": true,
	"them": true, "their": true, "all": true, "also": true, "more": true,
}

// genericAlt are alt texts that describe nothing.
var genericAlt = map[string]bool{
	"image": true, "img": true, "picture": true, "photo": true, "pic": true,
	"graphic": true, "logo": true, "icon": true, "banner": true, "placeholder": true,
	"untitled": true, "thumbnail": true, "screenshot": true, "bild": true, "imagen": true,
}

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".avif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// tokenize case-folds text and splits it into words of letters and digits.
func tokenize(text string) []string {
	folded := cases.Fold().String(text)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordCount returns the number of words in text.
func WordCount(text string) int {
	return len(tokenize(text))
}

// KeywordDensity returns keyword occurrences as a percentage of all words,
// counting each phrase occurrence as len(phrase) words.
func (p *HTMLProvider) KeywordDensity(text, keyword string) float64 {
	words := tokenize(text)
	kw := tokenize(keyword)
	if len(words) == 0 || len(kw) == 0 {
		return 0
	}
	n := countPhrase(words, kw)
	return float64(n*len(kw)) / float64(len(words)) * 100
}

func (p *HTMLProvider) ContainsKeyword(text, keyword string) bool {
	kw := tokenize(keyword)
	if len(kw) == 0 {
		return false
	}
	return countPhrase(tokenize(text), kw) > 0
}

func countPhrase(words, phrase []string) int {
	n := 0
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j := range phrase {
			if words[i+j] != phrase[j] {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}

// AnalyzeContentRepetition finds phrases of 2 to maxWordCount words occurring
// at least minOccurrences times. Phrases that start or end with a stopword are
// ignored, and a phrase is dropped when a longer repeated phrase containing it
// has the same count.
func (p *HTMLProvider) AnalyzeContentRepetition(text string, minOccurrences, maxWordCount int) map[string]int {
	if minOccurrences < 2 {
		minOccurrences = 2
	}
	if maxWordCount < 2 {
		return map[string]int{}
	}
	words := tokenize(text)
	counts := make(map[string]int)
	for size := 2; size <= maxWordCount; size++ {
		for i := 0; i+size <= len(words); i++ {
			gram := words[i : i+size]
			if stopwords[gram[0]] || stopwords[gram[size-1]] {
				continue
			}
			counts[strings.Join(gram, " ")]++
		}
	}

	repeated := make(map[string]int)
	for phrase, n := range counts {
		if n >= minOccurrences {
			repeated[phrase] = n
		}
	}

	phrases := make([]string, 0, len(repeated))
	for phrase := range repeated {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	for i, longer := range phrases {
		for _, shorter := range phrases[i+1:] {
			if repeated[shorter] == repeated[longer] && containsWords(longer, shorter) {
				delete(repeated, shorter)
			}
		}
	}
	return repeated
}

func containsWords(longer, shorter string) bool {
	return longer != shorter && strings.Contains(" "+longer+" ", " "+shorter+" ")
}

// EvaluateAltTextQuality rates one alt text in [0,1]: filenames and generic
// words score low, short descriptive phrases score highest and very long
// texts are penalized.
func (p *HTMLProvider) EvaluateAltTextQuality(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if looksLikeFilename(text) {
		return 0.1
	}
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}
	if len(words) > 16 || len([]rune(text)) > 125 {
		return 0.6
	}
	meaningful := 0
	for _, w := range words {
		if !stopwords[w] && !genericAlt[w] {
			meaningful++
		}
	}
	switch {
	case meaningful == 0:
		return 0.2
	case len(words) == 1:
		return 0.4
	case len(words) == 2:
		return 0.7
	default:
		return 1.0
	}
}

func looksLikeFilename(text string) bool {
	if strings.ContainsAny(text, " ") {
		return false
	}
	if imageExt[strings.ToLower(path.Ext(text))] {
		return true
	}
	// DSC_0042, IMG-2031 and similar camera names
	lower := strings.ToLower(text)
	for _, prefix := range []string{"img_", "img-", "dsc_", "dsc-", "dscn", "pxl_", "screenshot_"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
