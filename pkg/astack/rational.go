package astack

import(
	"fmt"
)

// A Rational is an exact exposure duration, in seconds. Shutter
// speeds come out of EXIF as numerator/denominator pairs, and many
// short exposures have to sum exactly - 1/100 + 1/100 + 1/100 must be
// 3/100, not 0.030000000000000002 - so a duration is never held as a
// float until the moment it gets printed.
type Rational struct {
	Num int64
	Den int64
}

var ZeroDuration = Rational{0, 1}

func (r Rational)IsZero() bool { return r.Num == 0 }

func (r Rational)Seconds() float64 {
	if r.Den == 0 {
		return 0.0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational)String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

// Add keeps the sum in lowest terms, so the numbers stay small even
// over thousands of frames.
func (r Rational)Add(o Rational) Rational {
	if r.Den == 0 { r = ZeroDuration }
	if o.Den == 0 { o = ZeroDuration }

	sum := Rational{r.Num*o.Den + o.Num*r.Den, r.Den * o.Den}
	return sum.reduce()
}

func (r Rational)reduce() Rational {
	if r.Num == 0 {
		return ZeroDuration
	}

	g := gcd(abs64(r.Num), abs64(r.Den))
	return Rational{r.Num / g, r.Den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 { return -v }
	return v
}
