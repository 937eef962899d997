package simulation

import (
	"regexp"
	"strings"
)

var (
	classAttr = regexp.MustCompile(`class\s*=`)
	namedFunc = regexp.MustCompile(`function\s+\w+`)
	classDecl = regexp.MustCompile(`class\s+\w+`)
	timers    = regexp.MustCompile(`setInterval|setTimeout`)
	network   = regexp.MustCompile(`(?i)fetch|XMLHttpRequest|ajax`)
)

// complexityScore rates the simulation from its main HTML, the
// concatenated JS and the file census. Base 1, capped at 10.
func complexityScore(html, js string, c Census) int {
	score := 1

	if html != "" {
		lower := strings.ToLower(html)
		if len(html) > 1000 {
			score++
		}
		if strings.Contains(lower, "canvas") {
			score += 2
		}
		if strings.Contains(lower, "svg") {
			score++
		}
		if classAttr.MatchString(html) {
			score++
		}
		if strings.Contains(lower, "webgl") {
			score += 2
		}
	}

	if js != "" {
		if len(js) > 500 {
			score++
		}
		if len(js) > 2000 {
			score++
		}
		if len(js) > 5000 {
			score++
		}
		if namedFunc.MatchString(js) {
			score++
		}
		if classDecl.MatchString(js) {
			score++
		}
		if strings.Contains(js, "addEventListener") {
			score++
		}
		if timers.MatchString(js) {
			score++
		}
		if network.MatchString(js) {
			score++
		}
	}

	total := c.Total()
	if total > 5 {
		score++
	}
	if total > 10 {
		score++
	}
	if total > 20 {
		score++
	}

	// File-type diversity bonus, capped at 3. An empty census yields -1,
	// pinning a bare repository at complexity 0.
	bonus := c.typesPresent() - 1
	if bonus > 3 {
		bonus = 3
	}
	score += bonus

	if len(c.JSON) > 0 {
		score++
	}
	if len(c.HTML) > 1 {
		score++
	}

	if score > 10 {
		score = 10
	}
	return score
}
