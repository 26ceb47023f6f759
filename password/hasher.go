package password

// Hasher is a single password hashing algorithm.
type Hasher interface {
	// Identify reports whether encoded was produced by this algorithm.
	Identify(encoded string) bool
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A mismatch is not an error.
	Verify(password, encoded string) (bool, error)
}

// Upgrader is implemented by hashers whose parameters can be strengthened over time.
type Upgrader interface {
	NeedsUpgrade(encoded string) (bool, error)
}
