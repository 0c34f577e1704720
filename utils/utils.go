package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold приводит строку к виду для сравнения: турецкий нижний регистр,
// без диакритики, ı → i, схлопнутые пробелы.
// "HALI SAHA", "Halı Saha" и "hali saha" дают одно и то же значение.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Турецкие правила: "I" → "ı", "İ" → "i". Дальше ı всё равно складывается в i,
	// так что "BISIKLET" и "BİSİKLET" совпадают.
	// cases.Caser хранит состояние, поэтому создаётся на каждый вызов.
	s = cases.Lower(language.Turkish).String(s)

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r == 'ı' {
				return 'i'
			}
			return r
		}),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Join(strings.Fields(folded), " ")
}

// ContainsAny сообщает, содержит ли сложенная строка s хотя бы одну из подстрок.
// Подстроки тоже складываются, поэтому их можно задавать в любом регистре и с диакритикой.
func ContainsAny(s string, needles ...string) bool {
	folded := Fold(s)
	if folded == "" {
		return false
	}
	for _, n := range needles {
		fn := Fold(n)
		if fn != "" && strings.Contains(folded, fn) {
			return true
		}
	}
	return false
}

// CapitalizeFirst переводит первую руну в верхний регистр по турецким правилам
// и оставляет остаток строки без изменений.
func CapitalizeFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for i := range s {
		if i == 0 {
			continue
		}
		return cases.Upper(language.Turkish).String(s[:i]) + s[i:]
	}
	return cases.Upper(language.Turkish).String(s)
}
