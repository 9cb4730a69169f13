package postgresadapter

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemRand samples from the shared math/rand source, which is safe for
// concurrent use.
type SystemRand struct{}

func (SystemRand) Intn(n int) int {
	return rand.Intn(n)
}
