package graph

import "unicode/utf16"

// reservedKeys are bookkeeping fields of the payload and the layout; they
// never contribute to a node's property signature.
var reservedKeys = map[string]struct{}{
	"source":   {},
	"target":   {},
	"type":     {},
	"selected": {},
	"index":    {},
	"x":        {},
	"y":        {},
	"weight":   {},
	"px":       {},
	"py":       {},
	"vx":       {},
	"vy":       {},
}

// IsReserved reports whether key is excluded from property hashing.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Hash is the polynomial rolling hash h = 31*h + c over the UTF-16 code units
// of s, with 32-bit wraparound.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}

// PropertyHash sums Hash(key) over all non-reserved keys. Only key names are
// hashed: nodes with the same key set share a hash whatever their values.
func PropertyHash(props map[string]interface{}) int64 {
	var sum int64
	for key := range props {
		if IsReserved(key) {
			continue
		}
		sum += int64(Hash(key))
	}
	return sum
}
