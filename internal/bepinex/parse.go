package bepinex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	metadataPrefix = "## Settings file was created by plugin "
	guidPrefix     = "## Plugin GUID: "
)

// maxLineSize bounds a single line; long string settings can exceed
// bufio.Scanner's default token size.
const maxLineSize = 1024 * 1024

// Parse parses the text of a settings file.
func Parse(text string) (*FileData, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader parses a settings file from r.
// On error no partial document is returned.
func ParseReader(r io.Reader) (*FileData, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	doc := &FileData{}
	var current *Section
	var pending entryBuilder
	lineNum := 0

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNum++
		return strings.TrimRight(scanner.Text(), "\r\n"), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, metadataPrefix) {
			if name, version, ok := splitPluginLine(line); ok {
				// The GUID line always follows the header line.
				guidLine, _ := next()
				guid, found := strings.CutPrefix(guidLine, guidPrefix)
				if !found {
					guid = ""
				}
				doc.Metadata = &Metadata{ModName: name, ModVersion: version, ModGUID: guid}
			}
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				doc.Sections = append(doc.Sections, *current)
			}
			current = &Section{Name: line[1 : len(line)-1]}
			continue
		}

		if strings.HasPrefix(line, "##") {
			desc := strings.TrimPrefix(line, "##")
			pending.description = append(pending.description, strings.TrimPrefix(desc, " "))
			continue
		}

		if line == FlagsMarker {
			pending.isFlags = true
			continue
		}

		if meta, ok := strings.CutPrefix(line, "# "); ok {
			pending.comment(meta)
			continue
		}

		name, raw, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)

		entry, err := pending.build(name, raw)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Kind: KindCoercion, Err: err}
		}
		pending.reset()

		if current == nil {
			return nil, &ParseError{Line: lineNum, Kind: KindStructural, Err: fmt.Errorf("%w: %q", ErrNoSection, name)}
		}
		current.Entries = append(current.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if current != nil {
		doc.Sections = append(doc.Sections, *current)
	}

	return doc, nil
}

// splitPluginLine splits "## Settings file was created by plugin NAME VERSION".
// The version is the last word; the name may contain spaces.
func splitPluginLine(line string) (name, version string, ok bool) {
	rest := strings.TrimPrefix(line, metadataPrefix)
	i := strings.LastIndex(rest, " ")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
