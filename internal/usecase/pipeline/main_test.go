package pipeline

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// run goroutines and the janitor must all be gone after each package run
	goleak.VerifyTestMain(m)
}
