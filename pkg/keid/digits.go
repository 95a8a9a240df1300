package keid

import (
	"math/big"
	"strings"
)

// digitTable converts between hex and a positional alphabet using
// big-integer arithmetic. The first symbol is the zero digit.
type digitTable struct {
	symbols string
	base    *big.Int
	index   [256]int16
}

func newDigitTable(symbols string) *digitTable {
	t := &digitTable{symbols: symbols, base: big.NewInt(int64(len(symbols)))}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		t.index[symbols[i]] = int16(i)
	}
	return t
}

// encode interprets h as a hex number and renders it in the table's base,
// left-padded with the zero symbol to width.
func (t *digitTable) encode(h string, width int) string {
	n, ok := new(big.Int).SetString(h, 16)
	if !ok {
		n = new(big.Int)
	}

	var out []byte
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, t.base, mod)
		out = append(out, t.symbols[mod.Int64()])
	}
	for len(out) < width {
		out = append(out, t.symbols[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// decode returns the unpadded hex rendering of s.
func (t *digitTable) decode(s string) (string, error) {
	n := new(big.Int)
	d := new(big.Int)
	for i := 0; i < len(s); i++ {
		v := t.index[s[i]]
		if v < 0 {
			return "", ErrInvalidSymbol
		}
		n.Mul(n, t.base)
		n.Add(n, d.SetInt64(int64(v)))
	}
	return n.Text(16), nil
}

func reverse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := len(s) - 1; i >= 0; i-- {
		b.WriteByte(s[i])
	}
	return b.String()
}
