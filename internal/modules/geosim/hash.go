// README: Seeded FNV-1a hashing; the engine's only source of pseudo-randomness.
package geosim

// 32-bit FNV-1a parameters. The demo map and the tests depend on these exact
// values staying put: the same salt/seed pair must hash identically across
// runs, processes and implementations. Do not swap this for math/rand.
const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193
)

// hash32 computes the 32-bit FNV-1a digest of "salt:seed".
func hash32(salt, seed string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(salt); i++ {
		h ^= uint32(salt[i])
		h *= fnvPrime32
	}
	h ^= uint32(':')
	h *= fnvPrime32
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= fnvPrime32
	}
	return h
}

// Unit derives a stable value in [0, 1) from a seed string and a salt.
// Distinct salts decorrelate the values drawn from one seed.
func Unit(seed, salt string) float64 {
	return float64(hash32(salt, seed)%1_000_000) / 1_000_000
}
