package contract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats d the Brazilian way, without the currency symbol: 1.234,56
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

var (
	units = [...]string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
		"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens     = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundreds = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
	scales   = [...]struct{ one, many string }{{"", ""}, {"mil", "mil"}, {"milhão", "milhões"}, {"bilhão", "bilhões"}, {"trilhão", "trilhões"}}
)

func below1000(n int64) string {
	if n == 100 {
		return "cem"
	}
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	r := n % 100
	switch {
	case r >= 20:
		parts = append(parts, tens[r/10])
		if r%10 > 0 {
			parts = append(parts, units[r%10])
		}
	case r > 0:
		parts = append(parts, units[r])
	}
	return strings.Join(parts, " e ")
}

func integerWords(n int64) string {
	if n == 0 {
		return "zero"
	}
	var groups []int64
	for v := n; v > 0; v /= 1000 {
		groups = append(groups, v%1000)
	}
	if len(groups) > len(scales) {
		return decimal.NewFromInt(n).String()
	}

	var words []string
	var vals []int64
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		var w string
		switch {
		case i == 0:
			w = below1000(g)
		case i == 1 && g == 1:
			w = "mil"
		case g == 1:
			w = "um " + scales[i].one
		default:
			w = below1000(g) + " " + scales[i].many
		}
		words = append(words, w)
		vals = append(vals, g)
	}

	out := words[0]
	for k := 1; k < len(words); k++ {
		sep := ", "
		if k == len(words)-1 && (vals[k] < 100 || vals[k]%100 == 0) {
			sep = " e "
		}
		out += sep + words[k]
	}
	return out
}

// AmountInWords spells a BRL amount in Portuguese, e.g. "mil e quinhentos reais e cinquenta centavos".
func AmountInWords(d decimal.Decimal) string {
	d = d.Abs().Round(2)
	reais := d.IntPart()
	cents := d.Sub(decimal.NewFromInt(reais)).Shift(2).IntPart()

	var centsText string
	switch {
	case cents == 1:
		centsText = "um centavo"
	case cents > 1:
		centsText = integerWords(cents) + " centavos"
	}
	if reais == 0 && cents > 0 {
		return centsText
	}

	var reaisText string
	switch {
	case reais == 1:
		reaisText = "um real"
	case reais >= 1_000_000 && reais%1_000_000 == 0:
		reaisText = integerWords(reais) + " de reais"
	default:
		reaisText = integerWords(reais) + " reais"
	}
	if centsText == "" {
		return reaisText
	}
	return reaisText + " e " + centsText
}
