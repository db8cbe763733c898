package main

import (
	"fmt"
	"io"
	"strings"
)

var stations = []string{"Abisko", "Asa", "Grimsö", "Lönnstorp", "Skogaryd", "Svartberget"}

func Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Station sensors\n\n")
	for _, s := range stations {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
