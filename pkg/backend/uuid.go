package backend

import "fmt"

// namedUUIDPrefix marks a placeholder UUID that refers to a row
// inserted earlier in the same OVSDB transaction, the same convention
// pkg/ovsdb and pkg/ovndb/transact.go use for same-transaction inserts.
const namedUUIDPrefix = "named-uuid-"

// BuildNamedUUID returns the same-transaction reference form libovsdb
// recognises for a row named `name`.
func BuildNamedUUID(name string) string {
	return fmt.Sprintf("%s%s", namedUUIDPrefix, name)
}

// IsNamedUUID reports whether uuid is a same-transaction reference
// rather than a real, already-committed row UUID.
func IsNamedUUID(uuid string) bool {
	return len(uuid) > len(namedUUIDPrefix) && uuid[:len(namedUUIDPrefix)] == namedUUIDPrefix
}
