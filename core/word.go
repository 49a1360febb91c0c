// Package core implements the width-parameterized ALU core.
package core

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

// StandardWidths lists the operand widths the reference configurations use.
// Any width that is a multiple of 8 in [MinWidth, MaxWidth] is accepted.
var StandardWidths = []uint{8, 16, 32, 64, 128, 256, 1024}

// Width limits for Word and Evaluator construction.
const (
	MinWidth = 8
	MaxWidth = 4096
)

// Word is an N-bit operand: an unsigned bit vector that is also
// interpretable as a two's-complement signed value. The zero Word has zero
// width and is not usable; construct Words through NewWord and friends.
//
// Words are stored as little-endian 64-bit limbs with the top limb masked,
// so all bits above the width are zero at all times.
type Word struct {
	width uint
	limbs []uint64
}

func limbCount(width uint) int {
	return int((width + 63) / 64)
}

// topMask returns the mask for the most significant limb.
func topMask(width uint) uint64 {
	if width%64 == 0 {
		return ^uint64(0)
	}
	return (uint64(1) << (width % 64)) - 1
}

// NewWord returns a zero Word of the given width in bits.
func NewWord(width uint) Word {
	return Word{width: width, limbs: make([]uint64, limbCount(width))}
}

// WordFromUint64 returns a Word holding v truncated to width bits.
func WordFromUint64(width uint, v uint64) Word {
	w := NewWord(width)
	w.limbs[0] = v
	w.mask()
	return w
}

// WordFromBig returns a Word holding v modulo 2^width. Negative values take
// their two's-complement representation.
func WordFromBig(width uint, v *big.Int) Word {
	mod := new(big.Int).Lsh(big.NewInt(1), width)
	reduced := new(big.Int).Mod(v, mod)

	w := NewWord(width)
	buf := make([]byte, len(w.limbs)*8)
	reduced.FillBytes(buf)
	for i := range w.limbs {
		off := len(buf) - 8*(i+1)
		w.limbs[i] = binary.BigEndian.Uint64(buf[off : off+8])
	}
	w.mask()
	return w
}

// WordFromHex parses a hexadecimal string (optionally 0x-prefixed) into a
// Word of the given width. Values wider than width are truncated.
func WordFromHex(width uint, s string) (Word, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return Word{}, fmt.Errorf("invalid hex operand %q", s)
	}
	return WordFromBig(width, v), nil
}

// AllOnes returns the width-bit word with every bit set.
func AllOnes(width uint) Word {
	w := NewWord(width)
	for i := range w.limbs {
		w.limbs[i] = ^uint64(0)
	}
	w.mask()
	return w
}

// MaxSigned returns the largest two's-complement value: 0111...1.
func MaxSigned(width uint) Word {
	w := AllOnes(width)
	w.clearBit(width - 1)
	return w
}

// MinSigned returns the smallest two's-complement value: 1000...0.
func MinSigned(width uint) Word {
	w := NewWord(width)
	w.setBit(width - 1)
	return w
}

func (w *Word) mask() {
	if len(w.limbs) > 0 {
		w.limbs[len(w.limbs)-1] &= topMask(w.width)
	}
}

func (w *Word) setBit(i uint) {
	w.limbs[i/64] |= uint64(1) << (i % 64)
}

func (w *Word) clearBit(i uint) {
	w.limbs[i/64] &^= uint64(1) << (i % 64)
}

// Width returns the word's width in bits.
func (w Word) Width() uint {
	return w.width
}

// Bit returns bit i (0 = least significant) as 0 or 1. Bits at or above the
// width read as 0.
func (w Word) Bit(i uint) uint64 {
	if i >= w.width {
		return 0
	}
	return (w.limbs[i/64] >> (i % 64)) & 1
}

// Uint64 returns the low 64 bits.
func (w Word) Uint64() uint64 {
	if len(w.limbs) == 0 {
		return 0
	}
	return w.limbs[0]
}

// IsZero reports whether every bit is clear.
func (w Word) IsZero() bool {
	for _, limb := range w.limbs {
		if limb != 0 {
			return false
		}
	}
	return true
}

// Sign reports the most significant bit, the two's-complement sign.
func (w Word) Sign() bool {
	return w.Bit(w.width-1) == 1
}

// Equal reports whether w and x have the same width and value.
func (w Word) Equal(x Word) bool {
	if w.width != x.width {
		return false
	}
	for i := range w.limbs {
		if w.limbs[i] != x.limbs[i] {
			return false
		}
	}
	return true
}

func (w Word) clone() Word {
	z := Word{width: w.width, limbs: make([]uint64, len(w.limbs))}
	copy(z.limbs, w.limbs)
	return z
}

// Resize returns w truncated or zero-extended to the given width.
func (w Word) Resize(width uint) Word {
	z := NewWord(width)
	copy(z.limbs, w.limbs)
	z.mask()
	return z
}

// Big returns the unsigned value as a big.Int.
func (w Word) Big() *big.Int {
	v := new(big.Int)
	for i := len(w.limbs) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(w.limbs[i]))
	}
	return v
}

// SignedBig returns the two's-complement signed value as a big.Int.
func (w Word) SignedBig() *big.Int {
	v := w.Big()
	if w.Sign() {
		mod := new(big.Int).Lsh(big.NewInt(1), w.width)
		v.Sub(v, mod)
	}
	return v
}

// Hex returns the value as a zero-padded hexadecimal string without prefix.
func (w Word) Hex() string {
	digits := int(w.width / 4)
	if w.width%4 != 0 {
		digits++
	}
	return fmt.Sprintf("%0*x", digits, w.Big())
}

// String formats the word as 0x-prefixed zero-padded hex.
func (w Word) String() string {
	return "0x" + w.Hex()
}

// AddCarry returns w + x + carry and the carry out of the top bit.
// carry must be 0 or 1. Both operands must share w's width.
func (w Word) AddCarry(x Word, carry uint64) (Word, uint64) {
	z := NewWord(w.width)
	c := carry
	for i := range w.limbs {
		z.limbs[i], c = bits.Add64(w.limbs[i], x.limbs[i], c)
	}
	if w.width%64 != 0 {
		top := len(z.limbs) - 1
		c = z.limbs[top] >> (w.width % 64)
		z.limbs[top] &= topMask(w.width)
	}
	return z, c
}

// SubBorrow returns w - x - borrow and the borrow out of the top bit,
// computed as w + ^x + (1 - borrow). borrow must be 0 or 1.
func (w Word) SubBorrow(x Word, borrow uint64) (Word, uint64) {
	diff, carry := w.AddCarry(x.Not(), 1-borrow)
	return diff, 1 - carry
}

// Neg returns the two's-complement negation of w.
func (w Word) Neg() Word {
	z, _ := w.Not().AddCarry(NewWord(w.width), 1)
	return z
}

// Abs returns the two's-complement absolute value. The minimum signed value
// negates to itself.
func (w Word) Abs() Word {
	if w.Sign() {
		return w.Neg()
	}
	return w.clone()
}

// Mul returns the full 2N-bit product of w and x split into low and high
// halves.
func (w Word) Mul(x Word) (lo, hi Word) {
	p := new(big.Int).Mul(w.Big(), x.Big())
	lo = WordFromBig(w.width, p)
	hi = WordFromBig(w.width, p.Rsh(p, w.width))
	return lo, hi
}

// DivMod returns the unsigned quotient and remainder of w / x. ok is false
// when x is zero, in which case both results are zero words.
func (w Word) DivMod(x Word) (q, r Word, ok bool) {
	if x.IsZero() {
		return NewWord(w.width), NewWord(w.width), false
	}
	quo, rem := new(big.Int).DivMod(w.Big(), x.Big(), new(big.Int))
	return WordFromBig(w.width, quo), WordFromBig(w.width, rem), true
}

// Not returns the bitwise complement.
func (w Word) Not() Word {
	z := NewWord(w.width)
	for i := range w.limbs {
		z.limbs[i] = ^w.limbs[i]
	}
	z.mask()
	return z
}

// And returns w & x.
func (w Word) And(x Word) Word {
	z := NewWord(w.width)
	for i := range w.limbs {
		z.limbs[i] = w.limbs[i] & x.limbs[i]
	}
	return z
}

// Or returns w | x.
func (w Word) Or(x Word) Word {
	z := NewWord(w.width)
	for i := range w.limbs {
		z.limbs[i] = w.limbs[i] | x.limbs[i]
	}
	return z
}

// Xor returns w ^ x.
func (w Word) Xor(x Word) Word {
	z := NewWord(w.width)
	for i := range w.limbs {
		z.limbs[i] = w.limbs[i] ^ x.limbs[i]
	}
	return z
}

// AndNot returns w &^ x.
func (w Word) AndNot(x Word) Word {
	z := NewWord(w.width)
	for i := range w.limbs {
		z.limbs[i] = w.limbs[i] &^ x.limbs[i]
	}
	return z
}

// Shl returns w << k with zero fill. Amounts of width or more yield zero.
func (w Word) Shl(k uint) Word {
	z := NewWord(w.width)
	if k >= w.width {
		return z
	}
	off := int(k / 64)
	rem := k % 64
	for i := len(z.limbs) - 1; i >= off; i-- {
		v := w.limbs[i-off] << rem
		if rem > 0 && i-off-1 >= 0 {
			v |= w.limbs[i-off-1] >> (64 - rem)
		}
		z.limbs[i] = v
	}
	z.mask()
	return z
}

// Shr returns w >> k with zero fill. Amounts of width or more yield zero.
func (w Word) Shr(k uint) Word {
	z := NewWord(w.width)
	if k >= w.width {
		return z
	}
	off := int(k / 64)
	rem := k % 64
	for i := 0; i+off < len(w.limbs); i++ {
		v := w.limbs[i+off] >> rem
		if rem > 0 && i+off+1 < len(w.limbs) {
			v |= w.limbs[i+off+1] << (64 - rem)
		}
		z.limbs[i] = v
	}
	return z
}

// Sar returns w >> k with sign fill. Amounts of width or more yield all
// ones for negative w and zero otherwise.
func (w Word) Sar(k uint) Word {
	if k >= w.width {
		if w.Sign() {
			return AllOnes(w.width)
		}
		return NewWord(w.width)
	}
	z := w.Shr(k)
	if w.Sign() && k > 0 {
		fill := AllOnes(w.width).Shl(w.width - k)
		z = z.Or(fill)
	}
	return z
}

// Rotl rotates left by k. The amount is reduced modulo the width.
func (w Word) Rotl(k uint) Word {
	k %= w.width
	if k == 0 {
		return w.clone()
	}
	return w.Shl(k).Or(w.Shr(w.width - k))
}

// Rotr rotates right by k. The amount is reduced modulo the width.
func (w Word) Rotr(k uint) Word {
	k %= w.width
	if k == 0 {
		return w.clone()
	}
	return w.Shr(k).Or(w.Shl(w.width - k))
}

// LeadingZeros counts zero bits from the most significant end. A zero word
// counts the full width.
func (w Word) LeadingZeros() uint {
	count := uint(0)
	topBits := w.width % 64
	for i := len(w.limbs) - 1; i >= 0; i-- {
		limb := w.limbs[i]
		limbWidth := uint(64)
		if i == len(w.limbs)-1 && topBits != 0 {
			limbWidth = topBits
			limb <<= 64 - topBits
		}
		if limb == 0 {
			count += limbWidth
			continue
		}
		return count + uint(bits.LeadingZeros64(limb))
	}
	return count
}

// TrailingZeros counts zero bits from the least significant end. A zero word
// counts the full width.
func (w Word) TrailingZeros() uint {
	count := uint(0)
	for _, limb := range w.limbs {
		if limb == 0 {
			count += 64
			continue
		}
		count += uint(bits.TrailingZeros64(limb))
		break
	}
	if count > w.width {
		count = w.width
	}
	return count
}

// OnesCount counts the set bits.
func (w Word) OnesCount() uint {
	count := uint(0)
	for _, limb := range w.limbs {
		count += uint(bits.OnesCount64(limb))
	}
	return count
}

// Reverse returns w with its bit order reversed across the full width.
func (w Word) Reverse() Word {
	n := len(w.limbs)
	raw := Word{width: uint(n) * 64, limbs: make([]uint64, n)}
	for i := range raw.limbs {
		raw.limbs[i] = bits.Reverse64(w.limbs[n-1-i])
	}
	return raw.Shr(raw.width - w.width).Resize(w.width)
}

// ByteSwap returns w with its byte order reversed. Widths are always
// multiples of 8.
func (w Word) ByteSwap() Word {
	nbytes := w.width / 8
	z := NewWord(w.width)
	for i := uint(0); i < nbytes; i++ {
		b := (w.limbs[i/8] >> ((i % 8) * 8)) & 0xFF
		j := nbytes - 1 - i
		z.limbs[j/8] |= b << ((j % 8) * 8)
	}
	return z
}

// Cmp compares w and x as unsigned values: -1 if w < x, 0 if equal, 1 if
// w > x.
func (w Word) Cmp(x Word) int {
	for i := len(w.limbs) - 1; i >= 0; i-- {
		switch {
		case w.limbs[i] < x.limbs[i]:
			return -1
		case w.limbs[i] > x.limbs[i]:
			return 1
		}
	}
	return 0
}

// SCmp compares w and x as two's-complement signed values.
func (w Word) SCmp(x Word) int {
	wNeg, xNeg := w.Sign(), x.Sign()
	switch {
	case wNeg && !xNeg:
		return -1
	case !wNeg && xNeg:
		return 1
	default:
		return w.Cmp(x)
	}
}
