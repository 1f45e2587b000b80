package analyzer

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestForbiddenCalls(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "forbiddencalls")
}

func TestHTTPHelpers(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "httphelpers")
}
