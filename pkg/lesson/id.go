package lesson

import (
	"path/filepath"
	"regexp"
)

var lessonIDPattern = regexp.MustCompile(`D\d-LESSON-\d{3}`)

// IDFromFilename extracts a lesson id such as D2-LESSON-004 from a file name,
// or returns "" when the name carries none.
func IDFromFilename(name string) string {
	return lessonIDPattern.FindString(filepath.Base(name))
}

// Domain returns the domain digit of a lesson id ("D3-LESSON-001" is "3"),
// or "" when the id does not start with D and a digit.
func Domain(id string) string {
	if len(id) < 2 || id[0] != 'D' {
		return ""
	}
	if id[1] < '0' || id[1] > '9' {
		return ""
	}
	return id[1:2]
}
