package model

// 支持的语言
const (
	LocaleJA = "ja"
	LocaleEN = "en"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleJA

// Locales 所有支持的语言，按优先顺序
var Locales = []string{LocaleJA, LocaleEN}

// ValidLocale 判断语言是否受支持
func ValidLocale(locale string) bool {
	return locale == LocaleJA || locale == LocaleEN
}

// CounterpartLocale 返回配对语言，ja<->en
func CounterpartLocale(locale string) string {
	if locale == LocaleJA {
		return LocaleEN
	}
	return LocaleJA
}

// pickLocalized 按语言取值，缺失时回退到另一语言，再回退到fallback
func pickLocalized(locale, ja, en, fallback string) string {
	primary, secondary := ja, en
	if locale == LocaleEN {
		primary, secondary = en, ja
	}
	if primary != "" {
		return primary
	}
	if secondary != "" {
		return secondary
	}
	return fallback
}
