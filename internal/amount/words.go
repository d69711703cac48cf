package amount

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

type wordForms struct {
	one, few, many string
	feminine       bool
}

var (
	unitsMasc = [...]string{"", "один", "два", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"}
	unitsFem  = [...]string{"", "одна", "две", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"}
	teens     = [...]string{"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать", "пятнадцать", "шестнадцать", "семнадцать", "восемнадцать", "девятнадцать"}
	tens      = [...]string{"", "", "двадцать", "тридцать", "сорок", "пятьдесят", "шестьдесят", "семьдесят", "восемьдесят", "девяносто"}
	hundreds  = [...]string{"", "сто", "двести", "триста", "четыреста", "пятьсот", "шестьсот", "семьсот", "восемьсот", "девятьсот"}

	rubles = wordForms{one: "рубль", few: "рубля", many: "рублей"}

	scales = [...]wordForms{
		{},
		{one: "тысяча", few: "тысячи", many: "тысяч", feminine: true},
		{one: "миллион", few: "миллиона", many: "миллионов"},
		{one: "миллиард", few: "миллиарда", many: "миллиардов"},
		{one: "триллион", few: "триллиона", many: "триллионов"},
		{one: "квадриллион", few: "квадриллиона", many: "квадриллионов"},
		{one: "квинтиллион", few: "квинтиллиона", many: "квинтиллионов"},
	}
)

var thousand = big.NewInt(1000)

// RublesInWords spells the whole-rouble part of value in Russian.
// Kopecks are dropped. Values past the quintillions are written in digits.
func RublesInWords(value decimal.Decimal) string {
	whole := value.Truncate(0)
	prefix := ""
	if whole.IsNegative() {
		prefix = "минус "
		whole = whole.Neg()
	}

	n := whole.BigInt()
	if n.Sign() == 0 {
		return prefix + "ноль " + rubles.many
	}

	var triads []uint64
	rest, mod := new(big.Int).Set(n), new(big.Int)
	for rest.Sign() > 0 {
		rest.QuoRem(rest, thousand, mod)
		triads = append(triads, mod.Uint64())
	}
	if len(triads) > len(scales) {
		return prefix + n.String() + " " + rubles.form(triads[0])
	}

	var parts []string
	for i := len(triads) - 1; i >= 0; i-- {
		triad := triads[i]
		if triad == 0 {
			continue
		}
		scale := scales[i]
		parts = append(parts, triadWords(triad, scale.feminine)...)
		if i > 0 {
			parts = append(parts, scale.form(triad))
		}
	}

	parts = append(parts, rubles.form(triads[0]))
	return prefix + strings.Join(parts, " ")
}

func triadWords(n uint64, feminine bool) []string {
	var words []string
	if h := n / 100; h > 0 {
		words = append(words, hundreds[h])
	}

	rest := n % 100
	switch {
	case rest >= 10 && rest < 20:
		words = append(words, teens[rest-10])
	default:
		if t := rest / 10; t > 0 {
			words = append(words, tens[t])
		}
		if u := rest % 10; u > 0 {
			if feminine {
				words = append(words, unitsFem[u])
			} else {
				words = append(words, unitsMasc[u])
			}
		}
	}
	return words
}

func (f wordForms) form(n uint64) string {
	if mod := n % 100; mod >= 11 && mod <= 14 {
		return f.many
	}
	switch n % 10 {
	case 1:
		return f.one
	case 2, 3, 4:
		return f.few
	default:
		return f.many
	}
}
