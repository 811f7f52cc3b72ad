package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// getSeed prints a prompt to w and reads the seed password from the
// user's terminal without echo. A newline is printed after the read to
// keep the UI tidy.
func getSeed(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Seed password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
