package main

import (
	"flag"
	"fmt"
	"os"

	wsruntime "github.com/gosuda/wsemu/runtime"
)

func main() {
	in := flag.String("in", "", "input snapshot path")
	out := flag.String("out", "", "output file path")
	to := flag.String("to", "json", "output format: json|csv|rules")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/savecodec -in <snapshot> -out <output> -to json|csv|rules")
		os.Exit(2)
	}
	if err := wsruntime.ConvertSnapshot(*in, *out, *to); err != nil {
		fmt.Fprintf(os.Stderr, "convert failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("converted %s -> %s (%s)\n", *in, *out, *to)
}
