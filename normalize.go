package dartex

import (
	"regexp"
	"strings"
)

// hws matches one horizontal whitespace character (whitespace other than
// line terminators).
const hws = `[^\S\r\n]`

// dashes is the class of dash characters used around page numbers.
const dashes = `[-‒–—]`

// charReplacer maps legacy single-byte punctuation, invisible spaces and
// Unicode dash variants to their canonical forms.
var charReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u200b", " ",
	"\u0091", "\u2018",
	"\u0092", "\u2019",
	"\u0093", "\u201c",
	"\u0094", "\u201d",
	"\u0095", "\u2022",
	"\u0096", "-",
	"\u0097", "-",
	"\u0098", "\u02dc",
	"\u0099", "\u2122",
	"\u2010", "-",
	"\u2011", "-",
	"\u2012", "-",
	"\u2013", "-",
	"\u2014", "-",
	"\u2015", "-",
)

var (
	partHeaderRe = regexp.MustCompile(`(?i)(\n` + hws + `*)(P` + hws + `*A` + hws + `*R` + hws + `*T)(` + hws + `+)((?:\d{1,2}|[IV]{1,2})[AB]?)`)
	itemHeaderRe = regexp.MustCompile(`(?i)(\n` + hws + `*)(I` + hws + `*T` + hws + `*E` + hws + `*M)(` + hws + `+)(\d{1,2}[AB]?)`)
	headerSepRe  = regexp.MustCompile(`(?i)(ITEM|PART)(\s+\d{1,2}[AB]?)([-•])`)
	inlineWSRe   = regexp.MustCompile(hws)

	boilerplateRe = regexp.MustCompile(`(?is)\n` + hws + `*` +
		`(?:TABLE\s+OF\s+CONTENTS|INDEX\s+TO\s+FINANCIAL\s+STATEMENTS|BACK\s+TO\s+CONTENTS|QUICKLINKS)` +
		hws + `*\n`)

	dashedPageNumberRe = regexp.MustCompile(`\n` + hws + `*` + dashes + `*\d+` + dashes + `*` + hws + `*\n`)
	pageNumberRe       = regexp.MustCompile(`\n` + hws + `*\d+` + hws + `*\n`)
	footerPageRe       = regexp.MustCompile(`(?i)[\n\s]F` + dashes + `*\d+`)
	pageLabelRe        = regexp.MustCompile(`(?i)\n` + hws + `*Page\s+[\d*]+` + hws + `*\n`)

	blankRunRe = regexp.MustCompile(`(` + hws + `*\n` + hws + `*){2,}`)
	spaceRunRe = regexp.MustCompile(hws + `{2,}`)
)

// CanonicalizeChars replaces legacy control punctuation (U+0091..U+0099)
// with typographic equivalents, non-breaking and zero-width spaces with a
// plain space, and the U+2010..U+2015 dash family with a hyphen.
func CanonicalizeChars(text string) string {
	return charReplacer.Replace(text)
}

// RepairHeaders rejoins section headers broken by stray whitespace, such as
// "P A R T II" or "I T E M 1A" at the start of a line, and pads a dash or
// bullet that directly follows an "ITEM n" or "PART n" header with spaces.
func RepairHeaders(text string) string {
	text = joinHeaderToken(partHeaderRe, text)
	text = joinHeaderToken(itemHeaderRe, text)
	return headerSepRe.ReplaceAllString(text, "${1}${2} ${3} ")
}

// joinHeaderToken removes the whitespace inside the header word matched by
// group 2 of re, leaving the other groups intact.
func joinHeaderToken(re *regexp.Regexp, text string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		g := re.FindStringSubmatch(m)
		return g[1] + inlineWSRe.ReplaceAllString(g[2], "") + g[3] + g[4]
	})
}

// RemoveBoilerplate deletes lines consisting solely of navigation
// boilerplate: table of contents and financial statement index markers,
// "back to contents" links and "quicklinks".
func RemoveBoilerplate(text string) string {
	return replaceUntilStable(boilerplateRe, text, "\n")
}

// RemovePageNumbers deletes standalone page-number lines (optionally
// flanked by dashes), "Page n" lines and inline "F-n" financial statement
// page markers.
func RemovePageNumbers(text string) string {
	text = replaceUntilStable(dashedPageNumberRe, text, "\n")
	text = replaceUntilStable(pageNumberRe, text, "\n")
	text = replaceUntilStable(footerPageRe, text, "")
	return replaceUntilStable(pageLabelRe, text, "\n")
}

// replaceUntilStable applies re until the text stops changing. Line
// patterns consume the newline that bounds the next line, so a single
// pass leaves every other line of a consecutive run behind.
func replaceUntilStable(re *regexp.Regexp, text, repl string) string {
	for {
		next := re.ReplaceAllLiteralString(text, repl)
		if next == text {
			return text
		}
		text = next
	}
}

// paragraphBreak separates paragraphs in normalized text. A single newline
// would be read back as a wrapped line on the next pass.
const paragraphBreak = "\n\n"

// CollapseWhitespace turns blank-line separated paragraphs into single
// lines: runs of two or more (optionally padded) newlines become one
// paragraph break, remaining single newlines become spaces, the result is
// trimmed, and runs of horizontal whitespace collapse to one space.
// Output paragraphs are separated by a blank line ("\n\n"), not a single
// newline, so running the pass again leaves them unchanged.
func CollapseWhitespace(text string) string {
	paragraphs := blankRunRe.Split(text, -1)
	for i, p := range paragraphs {
		paragraphs[i] = strings.ReplaceAll(p, "\n", " ")
	}
	text = strings.TrimSpace(strings.Join(paragraphs, paragraphBreak))
	return spaceRunRe.ReplaceAllString(text, " ")
}

// normalizePasses is the fixed pass order. Header repair and line removal
// depend on the original line structure, so CollapseWhitespace runs last.
var normalizePasses = []func(string) string{
	CanonicalizeChars,
	RepairHeaders,
	RemoveBoilerplate,
	RemovePageNumbers,
	CollapseWhitespace,
}

// maxNormalizeRounds bounds how often Normalize re-runs the pipeline.
const maxNormalizeRounds = 4

// Normalize runs the canonicalization passes over stripped text and
// repeats the pipeline until its output is a fixed point, so that
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	out := runPasses(text)
	for round := 1; round < maxNormalizeRounds; round++ {
		next := runPasses(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func runPasses(text string) string {
	for _, pass := range normalizePasses {
		text = pass(text)
	}
	return text
}
