package dataset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/dgryski/go-spooky"
)

// Equal reports whether d and o hold the same arrays (element-wise, in the
// same order) and the same metadata.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	return blockEqual(d.xs, o.xs) &&
		blockEqual(d.ys, o.ys) &&
		blockEqual(d.ids, o.ids) &&
		labelsEqual(d.featLab, o.featLab) &&
		slices.Equal(d.clLab, o.clLab) &&
		slices.Equal(d.featShape, o.featShape) &&
		extraEqual(d.extra, o.extra)
}

// Equal is the nil-safe form of a.Equal(b).
func Equal(a, b *Dataset) bool {
	return a.Equal(b)
}

func blockEqual(a, b block) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := 0; i < a.rows; i++ {
		if !slices.Equal(a.row(i), b.row(i)) {
			return false
		}
	}
	return true
}

// Fingerprint is a 128-bit hash of a dataset.
type Fingerprint [2]uint64

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x", f[0], f[1])
}

// Fingerprint hashes every field compared by Equal, so equal datasets have
// equal fingerprints. Matrices are read row by row, which makes the result
// independent of their memory layout.
func (d *Dataset) Fingerprint() Fingerprint {
	var h hasher
	h.block(d.xs)
	h.block(d.ys)
	h.block(d.ids)
	if d.featLab == nil {
		h.tag('-')
	} else {
		h.tag('+')
		h.putStrings(d.featLab)
	}
	h.putStrings(d.clLab)
	h.putUint(uint64(len(d.featShape)))
	for _, s := range d.featShape {
		h.putUint(uint64(s))
	}
	h.value(reflect.ValueOf(d.extra))

	var f Fingerprint
	spooky.Hash128(h.buf.Bytes(), &f[0], &f[1])
	return f
}

// hasher serialises values into a tagged, length-prefixed byte layout.
type hasher struct {
	buf bytes.Buffer
	tmp [8]byte
}

func (h *hasher) tag(b byte) { h.buf.WriteByte(b) }

func (h *hasher) putUint(v uint64) {
	binary.LittleEndian.PutUint64(h.tmp[:], v)
	h.buf.Write(h.tmp[:])
}

// putFloat folds -0 onto +0 so that values Equal treats alike hash alike.
func (h *hasher) putFloat(v float64) {
	if v == 0 {
		v = 0
	}
	h.putUint(math.Float64bits(v))
}

func (h *hasher) putString(s string) {
	h.putUint(uint64(len(s)))
	h.buf.WriteString(s)
}

func (h *hasher) putStrings(ss []string) {
	h.putUint(uint64(len(ss)))
	for _, s := range ss {
		h.putString(s)
	}
}

func (h *hasher) block(b block) {
	h.tag('M')
	h.putUint(uint64(b.rows))
	h.putUint(uint64(b.cols))
	for i := 0; i < b.rows; i++ {
		for _, v := range b.row(i) {
			h.putFloat(v)
		}
	}
}

// value hashes extra metadata. Nil and empty containers hash alike, matching
// Equal.
func (h *hasher) value(v reflect.Value) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			v = reflect.Value{}
			break
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		h.tag('n')
		return
	}
	h.putString(v.Type().String())
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			h.tag(1)
		} else {
			h.tag(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.putUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		h.putUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		h.putFloat(v.Float())
	case reflect.String:
		h.putString(v.String())
	case reflect.Slice:
		h.putUint(uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			h.value(v.Index(i))
		}
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		h.putUint(uint64(len(keys)))
		for _, k := range keys {
			h.putString(k)
			h.value(v.MapIndex(reflect.ValueOf(k)))
		}
	default:
		h.putString(fmt.Sprint(v.Interface()))
	}
}
