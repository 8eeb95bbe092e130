package mission

import "strings"

// ZodiacSign is a western zodiac sign. It is derived per request and never persisted.
type ZodiacSign string

const (
	Capricorn   ZodiacSign = "capricorn"
	Aquarius    ZodiacSign = "aquarius"
	Pisces      ZodiacSign = "pisces"
	Aries       ZodiacSign = "aries"
	Taurus      ZodiacSign = "taurus"
	Gemini      ZodiacSign = "gemini"
	Cancer      ZodiacSign = "cancer"
	Leo         ZodiacSign = "leo"
	Virgo       ZodiacSign = "virgo"
	Libra       ZodiacSign = "libra"
	Scorpio     ZodiacSign = "scorpio"
	Sagittarius ZodiacSign = "sagittarius"
)

// AllZodiacSigns returns the signs in calendar order starting at Capricorn.
func AllZodiacSigns() []ZodiacSign {
	return []ZodiacSign{
		Capricorn, Aquarius, Pisces, Aries, Taurus, Gemini,
		Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius,
	}
}

// ParseZodiacSign accepts a sign code in any letter case.
func ParseZodiacSign(s string) (ZodiacSign, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, z := range AllZodiacSigns() {
		if string(z) == s {
			return z, true
		}
	}
	return "", false
}

func (z ZodiacSign) String() string { return string(z) }
