package adcopy

import "strings"

// state is the position of the scanner in the fixed section order.
type state int

const (
	stateBeforeHeadlines state = iota
	stateInHeadlines
	stateInBody
	stateInCTAs
	stateInSlogans
)

// scanner walks a completion once, moving through the section states in
// order. A transition needs the next marker inside the current window; a
// missing marker stops the scan and leaves every later section empty.
//
// The window models split semantics: a marker that appears twice closes the
// enclosing text at its second occurrence.
type scanner struct {
	text    string
	markers Markers
	state   state
	pos     int
	window  int
}

func newScanner(text string, markers Markers) *scanner {
	return &scanner{text: text, markers: markers, window: len(text)}
}

func (s *scanner) run() [sectionCount]string {
	var sections [sectionCount]string

	for s.state < stateInSlogans {
		marker := s.markers[s.state]
		idx := strings.Index(s.text[s.pos:s.window], marker)
		if idx < 0 {
			break
		}
		idx += s.pos

		if s.state > stateBeforeHeadlines {
			sections[s.state-1] = strings.TrimSpace(s.text[s.pos:idx])
		}

		end := idx + len(marker)
		if repeat := strings.Index(s.text[end:s.window], marker); repeat >= 0 {
			s.window = end + repeat
		}

		s.state++
		s.pos = end + s.headingTail(s.text[end:s.window])
	}

	if s.state > stateBeforeHeadlines {
		sections[s.state-1] = strings.TrimSpace(s.text[s.pos:s.window])
	}
	return sections
}

// headingTail returns how many bytes of rest belong to the heading line that
// started with the current marker, e.g. " (3 adet):**". Content that follows
// the closing "**" (or ":") on the same line is kept.
func (s *scanner) headingTail(rest string) int {
	line := rest
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if s.state < stateInSlogans {
		if i := strings.Index(line, s.markers[s.state]); i >= 0 {
			line = line[:i]
		}
	}

	if i := strings.Index(line, "**"); i >= 0 {
		return i + 2
	}
	if i := strings.IndexByte(line, ':'); i >= 0 {
		return i + 1
	}
	return len(line)
}
