package vitals

import (
	"golang.org/x/text/language"
)

// Languages offered by the accessibility toolbar.
var Languages = []string{"EN", "ES", "TL", "ZH"}

var instructionTags = []language.Tag{language.English, language.Filipino}

var instructionMatcher = language.NewMatcher(instructionTags)

var instructionCatalogue = map[language.Tag]map[Kind][]string{
	language.English: {
		RespiratoryRate: {"Sit upright comfortably.", "Breathe normally.", "Do not talk during measurement."},
		Pulse:           {"Place your finger on the sensor.", "Keep your hand still.", "Relax your arm."},
		SpO2:            {"Insert your finger into the clip.", "Keep steady.", "Breathe normally."},
		BloodPressure:   {"Rest your arm on the table.", "Cuff should be snug.", "Keep feet flat on floor."},
		Temperature:     {"Look at the sensor.", "Remove glasses or hat.", "Stay still."},
	},
	language.Filipino: {
		RespiratoryRate: {"Umupo nang tuwid at komportable.", "Huminga nang normal.", "Huwag magsalita habang sinusukat."},
		Pulse:           {"Ilagay ang iyong daliri sa sensor.", "Panatilihing tahimik ang kamay.", "Irelaks ang braso."},
		SpO2:            {"Ipasok ang daliri sa clip.", "Panatilihing matatag.", "Huminga nang normal."},
		BloodPressure:   {"Ipahinga ang braso sa mesa.", "Ang cuff ay dapat mahigpit.", "Panatilihing patag ang mga paa sa sahig."},
		Temperature:     {"Tumingin sa sensor.", "Alisin ang salamin o sombrero.", "Manatiling tahimik."},
	},
}

// languageTag maps a toolbar code to a BCP 47 tag. TL is not a valid
// subtag so it is rewritten to Filipino.
func languageTag(code string) language.Tag {
	if code == "TL" || code == "tl" {
		return language.Filipino
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.English
	}
	return tag
}

// Instructions returns the ordered instruction lines for a kind in the
// requested language, falling back to English.
func Instructions(kind Kind, lang string) []string {
	_, idx, conf := instructionMatcher.Match(languageTag(lang))
	tag := language.English
	if conf != language.No {
		tag = instructionTags[idx]
	}
	if lines, ok := instructionCatalogue[tag][kind]; ok {
		return lines
	}
	return instructionCatalogue[language.English][kind]
}

// InstructionsFor returns the config's own instruction override when set,
// otherwise the catalogue lines for its kind.
func (c Config) InstructionsFor(lang string) []string {
	if len(c.Instructions) > 0 {
		return c.Instructions
	}
	return Instructions(c.Kind, lang)
}
