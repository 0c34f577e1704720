package category

import (
	"sort"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/utils"
)

// Other — фиксированная категория «Прочее».
const Other = "Diğer"

type rule struct {
	Name    string
	Slug    string
	Icon    string
	Aliases []string
}

// rules — единая упорядоченная таблица: турецкие, латинизированные и
// английские варианты в одном месте. Порядок задаёт приоритет при поиске
// подстроки ("masa tenisi" раньше "tenis").
var rules = []rule{
	{"Masa Tenisi", "masa-tenisi", "table-tennis", []string{"masa tenisi", "masatenisi", "ping pong", "pingpong", "table tennis"}},
	{"Futbol", "futbol", "soccer", []string{"futbol", "halı saha", "halisaha", "soccer", "football", "futsal", "mini futbol"}},
	{"Basketbol", "basketbol", "basketball", []string{"basketbol", "basket", "basketball", "streetball"}},
	{"Voleybol", "voleybol", "volleyball", []string{"voleybol", "volleyball", "plaj voleybolu", "beach volley", "voley"}},
	{"Tenis", "tenis", "tennis", []string{"tenis", "tennis", "kort"}},
	{"Badminton", "badminton", "badminton", []string{"badminton"}},
	{"Yüzme", "yuzme", "swim", []string{"yüzme", "swimming", "swim", "havuz", "pool"}},
	{"Bisiklet", "bisiklet", "bike", []string{"bisiklet", "mtb", "cycling", "bicycle", "bike", "dağ bisikleti"}},
	{"Yürüyüş", "yuruyus", "walk", []string{"yürüyüş", "doğa yürüyüşü", "trekking", "hiking", "hike", "walking", "walk"}},
	{"Koşu", "kosu", "run", []string{"koşu", "maraton", "marathon", "running", "jogging", "run"}},
	{"Fitness", "fitness", "fitness", []string{"fitness", "gym", "spor salonu", "crossfit", "pilates", "workout"}},
	{"Yoga", "yoga", "yoga", []string{"yoga"}},
	{"Dans", "dans", "dance", []string{"dans", "dance", "zumba", "salsa"}},
	{"Boks", "boks", "boxing", []string{"boks", "boxing", "kickboks", "kickboxing", "box"}},
	{"Okçuluk", "okculuk", "archery", []string{"okçuluk", "archery"}},
	{"Satranç", "satranc", "chess", []string{"satranç", "chess"}},
	{Other, "diger", "other", []string{"diğer", "other"}},
}

type alias struct {
	folded string
	rule   int
}

var (
	exact  map[string]int
	byName map[string]int
	// substr отсортирован по порядку правил, внутри правила — длинные варианты первыми.
	substr []alias
)

func init() {
	exact = make(map[string]int)
	byName = make(map[string]int, len(rules))
	for i, r := range rules {
		byName[r.Name] = i
		exact[utils.Fold(r.Name)] = i
		for _, a := range r.Aliases {
			f := utils.Fold(a)
			if _, dup := exact[f]; !dup {
				exact[f] = i
			}
			substr = append(substr, alias{folded: f, rule: i})
		}
	}
	sort.SliceStable(substr, func(a, b int) bool {
		if substr[a].rule != substr[b].rule {
			return substr[a].rule < substr[b].rule
		}
		return len(substr[a].folded) > len(substr[b].folded)
	})
}

// Normalize сводит произвольное название вида спорта к каноническому.
// Функция тотальна: пустой ввод даёт Other, неизвестный — ввод с заглавной буквы.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Other
	}

	folded := utils.Fold(raw)
	if i, ok := exact[folded]; ok {
		return rules[i].Name
	}

	for _, a := range substr {
		if strings.Contains(folded, a.folded) {
			return rules[a.rule].Name
		}
	}

	return utils.CapitalizeFirst(raw)
}

// IsCanonical сообщает, входит ли название в закрытый набор категорий.
func IsCanonical(name string) bool {
	_, ok := byName[name]
	return ok
}

// Canonical возвращает все канонические категории в порядке таблицы.
func Canonical() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

// Slug — ASCII-имя категории для ключей картинок. Неизвестные получают slug Other.
func Slug(name string) string {
	if i, ok := byName[Normalize(name)]; ok {
		return rules[i].Slug
	}
	return rules[byName[Other]].Slug
}

// Icon — имя иконки для UI.
func Icon(name string) string {
	if i, ok := byName[Normalize(name)]; ok {
		return rules[i].Icon
	}
	return rules[byName[Other]].Icon
}
