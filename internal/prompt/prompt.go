// Package prompt asks the user for interactive confirmation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUserAbort is returned when the user declines to continue.
var ErrUserAbort = errors.New("prompt: aborted by user")

// Confirm writes a yes/no question to out and reads the answer from in.
// Accepted tokens are case-insensitive "y"/"yes" and "n"/"no"; an empty
// line counts as no, anything else re-asks. EOF on in counts as no.
func Confirm(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Do you wish to continue? yes/[no]\n? ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return ErrUserAbort
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "yes", "y":
			return nil
		case "no", "n", "":
			return ErrUserAbort
		}
	}
}
