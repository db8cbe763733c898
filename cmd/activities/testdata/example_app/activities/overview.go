package main

import (
	"fmt"
	"io"
)

func Render(w io.Writer) error {
	_, err := fmt.Fprint(w, "# Overview\n\nPick an activity from the menu.\n")
	return err
}
