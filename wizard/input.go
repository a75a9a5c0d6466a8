package wizard

import (
	"strings"

	"i4.energy/across/cellwiz/console"
)

// choose shows menu until the answer starts with one of the characters in
// valid, printing invalid otherwise, and returns the answer's numeric value.
// An answer such as "12" passes the check and comes back as 12.
func (s *Session) choose(menu, valid, invalid string) (int, error) {
	for {
		s.term.Print(menu)
		line, err := s.term.ReadLine()
		if err != nil {
			return 0, err
		}
		if line != "" && strings.IndexByte(valid, line[0]) >= 0 {
			return console.Atoi(line), nil
		}
		s.term.Print(invalid)
	}
}

// ask prints prompt and returns the next line.
func (s *Session) ask(prompt string) (string, error) {
	s.term.Print(prompt)
	return s.term.ReadLine()
}
