package ir

// Version constants for the IR and the generator.
const (
	// IRVersion is the IR schema version. Bump when hashing input changes.
	IRVersion = "1"

	// GeneratorVersion is the tixgen release recorded in the ledger.
	GeneratorVersion = "0.1.0"
)
