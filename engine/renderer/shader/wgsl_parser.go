package shader

import (
	"regexp"
	"strings"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// computeEntryRegex matches @compute functions and captures the entry point name
	computeEntryRegex = regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`)
)

// parseEntryPoints extracts every entry point function name per stage from WGSL source.
// Comments are stripped first so commented-out functions are not reported.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - map[Stage][]string: entry point names keyed by stage, in source order
func parseEntryPoints(source string) map[Stage][]string {
	cleaned := stripComments(source)
	out := make(map[Stage][]string, 3)
	for stage, re := range map[Stage]*regexp.Regexp{
		StageVertex:   vertexEntryRegex,
		StageFragment: fragmentEntryRegex,
		StageCompute:  computeEntryRegex,
	} {
		for _, match := range re.FindAllStringSubmatch(cleaned, -1) {
			out[stage] = append(out[stage], match[1])
		}
	}
	return out
}

// stripComments removes line and block comments from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* ... */ comments, which nest in WGSL.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
