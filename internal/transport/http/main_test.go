package http

import (
	"os"
	"testing"

	"github.com/tupatil-17/easy-shop/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}
