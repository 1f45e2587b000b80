// Command linter runs the forbiddencalls analyzer over Go packages.
//
//	go run ./cmd/linter ./...
package main

import (
	"github.com/MikhailRaia/qr-generator/cmd/linter/analyzer"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
