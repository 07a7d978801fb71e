// Package keyhash turns arbitrary comparable memo keys into stable 64-bit
// digests so they can be stored in backends that only accept scalar keys
// (ristretto, Redis).
//
// Digests may collide. Stores built on keyhash keep the original key next to
// the value and compare it on every read.
package keyhash

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Sum64 returns the xxhash digest of key. Strings and fixed-size scalars are
// hashed directly; everything else is hashed through its Go-syntax
// representation prefixed with its dynamic type.
func Sum64(key any) uint64 {
	var buf [8]byte
	switch k := key.(type) {
	case string:
		return xxhash.Sum64String(k)
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case int32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], k)
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
	case float64:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(k))
	default:
		d := xxhash.New()
		_, _ = fmt.Fprintf(d, "%T", key)
		_, _ = d.Write([]byte{0}) // Separator
		_, _ = fmt.Fprintf(d, "%#v", key)
		return d.Sum64()
	}
	return xxhash.Sum64(buf[:])
}

// String returns the digest of key as a fixed-width hex string.
func String(key any) string {
	return fmt.Sprintf("%016x", Sum64(key))
}

// NeedsCheck reports whether values of type K can fail at runtime when used
// as a map key. That is only possible when K is, or contains, an interface.
func NeedsCheck[K comparable]() bool {
	return !staticallyHashable(reflect.TypeFor[K]())
}

func staticallyHashable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return false
	case reflect.Array:
		return staticallyHashable(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !staticallyHashable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Hashable reports whether key can be used as a map key without panicking.
// It walks interface values down to their dynamic types.
func Hashable(key any) bool {
	return hashable(reflect.ValueOf(key))
}

func hashable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		// nil interface
		return true
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return hashable(v.Elem())
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Array:
		for i := range v.Len() {
			if !hashable(v.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range v.NumField() {
			if !hashable(v.Field(i)) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
