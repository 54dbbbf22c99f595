package bepinex

import (
	"io"
	"strings"
)

// Write renders f as settings-file text. Every entry is followed by a
// blank line, so non-empty output ends with a newline.
func Write(f *FileData) string {
	var lines []string

	if m := f.Metadata; m != nil {
		lines = append(lines,
			metadataPrefix+m.ModName+" "+m.ModVersion,
			guidPrefix+m.ModGUID,
			"",
		)
	}

	for _, s := range f.Sections {
		lines = append(lines, "["+s.Name+"]", "")
		for _, e := range s.Entries {
			lines = append(lines, entryComments(e)...)
			lines = append(lines, e.Name+" = "+FormatValue(e.Value), "")
		}
	}

	return strings.Join(lines, "\n")
}

// WriteTo renders f into w.
func WriteTo(w io.Writer, f *FileData) (int64, error) {
	n, err := io.WriteString(w, Write(f))
	return int64(n), err
}

func entryComments(e Entry) []string {
	var out []string

	if e.Description != "" {
		for _, line := range strings.Split(e.Description, "\n") {
			out = append(out, "## "+line)
		}
	}

	out = append(out, "# Setting type: "+TypeName(e.Value))

	if e.Default != nil {
		out = append(out, "# Default value: "+FormatValue(e.Default))
	} else {
		out = append(out, "# Default value:")
	}

	if opts, ok := options(e.Value); ok {
		out = append(out, "# Acceptable values: "+strings.Join(opts, ", "))
	}

	if _, ok := e.Value.(Flags); ok {
		out = append(out, FlagsMarker)
	} else if lo, hi, ok := rangeText(e.Value); ok {
		out = append(out, "# Acceptable value range: From "+lo+" to "+hi)
	}

	return out
}
