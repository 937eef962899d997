package simulation

import "regexp"

// libraryPatterns pair a display name with the markup fingerprint of a
// common frontend library. Order is fixed so detection output is stable.
var libraryPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"jQuery", regexp.MustCompile(`(?i)jquery(\.min)?\.js|/jquery/|cdn.*jquery`)},
	{"Bootstrap", regexp.MustCompile(`(?i)bootstrap(\.min)?\.js|/bootstrap/|bootstrap\.css`)},
	{"D3.js", regexp.MustCompile(`(?i)d3(\.min)?\.js|/d3/|d3\.v\d`)},
	{"Three.js", regexp.MustCompile(`(?i)three(\.min)?\.js|/three/|three\.`)},
	{"p5.js", regexp.MustCompile(`(?i)p5(\.min)?\.js|/p5/|processing`)},
	{"Chart.js", regexp.MustCompile(`(?i)chart(\.min)?\.js|/chart/|chart\.js`)},
	{"MathJax", regexp.MustCompile(`(?i)mathjax|/mathjax/`)},
	{"React", regexp.MustCompile(`(?i)react(\.min)?\.js|/react/|react-dom`)},
	{"Vue", regexp.MustCompile(`(?i)vue(\.min)?\.js|/vue/|vue@`)},
}

// detectLibraries scans the main HTML for known library references.
func detectLibraries(html string) []string {
	found := make([]string, 0, len(libraryPatterns))
	if html == "" {
		return found
	}
	for _, lib := range libraryPatterns {
		if lib.re.MatchString(html) {
			found = append(found, lib.name)
		}
	}
	return found
}
