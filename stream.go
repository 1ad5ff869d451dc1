package charmm

import (
	"strconv"
	"strings"
)

// Some stream files hide alternative structural variants behind a tiny
// set/if/endif language (the cholesterol topology ships two models this
// way). ResolveConditionals interprets that language over the raw text,
// before block extraction, because it changes which RESI variant survives.
//
// Supported statements:
//
//	set <var> <value>          records a variable
//	if <var> eq <value> ... endif   keeps the block's lines when true
//	return                     inside a taken block, halts all processing
//
// Blank lines and lines starting with "#" are dropped; everything else
// outside conditionals passes through unchanged, until a return takes
// effect. The final variable map is returned for diagnostics.
func ResolveConditionals(text string) (string, map[string]string) {
	vars := make(map[string]string)
	var out []string
	skipdepth := 0 // inside this many unmatched endifs of a false branch
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		f := strings.Fields(t)
		kw := strings.ToLower(f[0])
		if skipdepth > 0 {
			switch kw {
			case "if":
				skipdepth++
			case "endif":
				skipdepth--
			}
			continue
		}
		switch kw {
		case "set":
			if len(f) >= 3 {
				vars[f[1]] = normalizeValue(strings.Join(f[2:], " "))
			}
		case "if":
			// only "if <var> eq <value>" is in the language
			if len(f) >= 4 && strings.ToLower(f[2]) == "eq" {
				if vars[f[1]] != normalizeValue(f[3]) {
					skipdepth = 1
				}
				continue
			}
			skipdepth = 1
		case "endif":
			// endif of a taken branch, nothing to do
		case "return":
			return strings.Join(out, "\n"), vars
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), vars
}

// normalizeValue strips surrounding quotes and canonicalizes integers, so
// "01" and 1 compare equal and quoted strings compare to bare ones.
func normalizeValue(v string) string {
	v = strings.Trim(v, `"'`)
	if i, err := strconv.Atoi(v); err == nil {
		return strconv.Itoa(i)
	}
	return v
}
