package helpers

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

const EnvTestSeed = "ALTDRAG_TEST_SEED"

// RandTest returns generator seeded from $ALTDRAG_TEST_SEED or clock.
// Seed is logged so a failing random sequence can be replayed.
func RandTest(t testing.TB) *rand.Rand {
	t.Helper()
	seed := time.Now().UnixNano()
	if s := os.Getenv(EnvTestSeed); s != "" {
		x, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			t.Fatalf("%s=%s err=%v", EnvTestSeed, s, err)
		}
		seed = x
	}
	t.Logf("random seed=%d, replay with %s=%d", seed, EnvTestSeed, seed)
	return rand.New(rand.NewSource(seed))
}
