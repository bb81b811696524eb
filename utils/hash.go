package utils

// FilenameHash is the name hash used by PCCARD/GAME.DAT file tables:
// a CRC-32 (poly 0x04c11db7) feeding six bits per character, lowest bit first.
func FilenameHash(name string) uint32 {
	const poly = 0x4c11db7

	var hash int32
	for _, c := range []byte(name) {
		for i := uint(0); i < 6; i++ {
			v := int32(uint32(hash)<<1) | int32((c>>i)&1)
			if hash < 0 {
				v ^= poly
			}
			hash = v
		}
	}

	if hash < 0 {
		return uint32(-int64(hash))
	}
	return uint32(hash)
}
