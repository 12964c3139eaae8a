package migrate

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
)

// Plan is a finished migration: the ordered SQL statements plus a content
// checksum. Hosts that store generated migrations can compare checksums to
// detect drift between a stored plan and a regenerated one.
type Plan struct {
	Statements []string
	Checksum   string
}

// NewPlan computes the checksum over the msgpack encoding of the statement
// list.
func NewPlan(statements []string) *Plan {
	return &Plan{
		Statements: statements,
		Checksum:   checksum(statements),
	}
}

func checksum(statements []string) string {
	b, err := msgpack.Marshal(statements)
	if err != nil {
		// A []string cannot fail to encode; keep the signature clean.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
