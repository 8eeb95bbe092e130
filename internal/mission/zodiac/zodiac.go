// Package zodiac resolves a birth date to its western zodiac sign.
package zodiac

import (
	"strings"
	"time"

	"github.com/appback/lottoguide-api/internal/domain/mission"
)

type monthDay struct {
	month time.Month
	day   int
}

func (md monthDay) key() int { return int(md.month)*100 + md.day }

type signRange struct {
	sign     mission.ZodiacSign
	from, to monthDay
	english  string
	korean   string
}

// table partitions the calendar year. Capricorn is the only range that wraps.
var table = []signRange{
	{mission.Capricorn, monthDay{time.December, 22}, monthDay{time.January, 19}, "Capricorn", "염소자리"},
	{mission.Aquarius, monthDay{time.January, 20}, monthDay{time.February, 18}, "Aquarius", "물병자리"},
	{mission.Pisces, monthDay{time.February, 19}, monthDay{time.March, 20}, "Pisces", "물고기자리"},
	{mission.Aries, monthDay{time.March, 21}, monthDay{time.April, 19}, "Aries", "양자리"},
	{mission.Taurus, monthDay{time.April, 20}, monthDay{time.May, 20}, "Taurus", "황소자리"},
	{mission.Gemini, monthDay{time.May, 21}, monthDay{time.June, 21}, "Gemini", "쌍둥이자리"},
	{mission.Cancer, monthDay{time.June, 22}, monthDay{time.July, 22}, "Cancer", "게자리"},
	{mission.Leo, monthDay{time.July, 23}, monthDay{time.August, 22}, "Leo", "사자자리"},
	{mission.Virgo, monthDay{time.August, 23}, monthDay{time.September, 22}, "Virgo", "처녀자리"},
	{mission.Libra, monthDay{time.September, 23}, monthDay{time.October, 22}, "Libra", "천칭자리"},
	{mission.Scorpio, monthDay{time.October, 23}, monthDay{time.November, 21}, "Scorpio", "전갈자리"},
	{mission.Sagittarius, monthDay{time.November, 22}, monthDay{time.December, 21}, "Sagittarius", "사수자리"},
}

func (r signRange) contains(md monthDay) bool {
	k := md.key()
	if r.from.key() <= r.to.key() {
		return k >= r.from.key() && k <= r.to.key()
	}
	return k >= r.from.key() || k <= r.to.key()
}

// Resolve returns the sign for the month and day of birth, or nil for a nil date.
// Only the calendar fields are read; the location of the time value is kept as given.
func Resolve(birth *time.Time) *mission.ZodiacSign {
	if birth == nil {
		return nil
	}
	md := monthDay{birth.Month(), birth.Day()}
	for _, r := range table {
		if r.contains(md) {
			s := r.sign
			return &s
		}
	}
	return nil
}

// EnglishName maps a sign code (any case) or a Korean sign name to its English name.
func EnglishName(name string) *string {
	r, ok := lookup(name)
	if !ok {
		return nil
	}
	s := r.english
	return &s
}

// KoreanName returns the product-locale name of a sign.
func KoreanName(sign mission.ZodiacSign) string {
	for _, r := range table {
		if r.sign == sign {
			return r.korean
		}
	}
	return ""
}

func lookup(name string) (signRange, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return signRange{}, false
	}
	lower := strings.ToLower(name)
	for _, r := range table {
		if string(r.sign) == lower || r.korean == name {
			return r, true
		}
	}
	return signRange{}, false
}
