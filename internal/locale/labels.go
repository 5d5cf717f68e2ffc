package locale

import "thoughts/internal/domain"

// Label names a fixed piece of interface text.
type Label string

const (
	LabelRecord       Label = "record"
	LabelStop         Label = "stop"
	LabelBack         Label = "back"
	LabelDone         Label = "done"
	LabelPlaceholder  Label = "placeholder"
	LabelLongAnswer   Label = "long_answer"
	LabelRecordings   Label = "recordings"
	LabelNoRecordings Label = "no_recordings"
	LabelPrompts      Label = "prompts"
)

var labels = map[domain.Language]map[Label]string{
	domain.LanguageArabic: {
		LabelRecord:       "سجل",
		LabelStop:         "ايقاف",
		LabelBack:         "الخلف",
		LabelDone:         "انهاء",
		LabelPlaceholder:  "صف ما تشعر به",
		LabelLongAnswer:   "اجابه طويلة",
		LabelRecordings:   "التسجيلات",
		LabelNoRecordings: "لا توجد تسجيلات",
		LabelPrompts:      "الأسئلة",
	},
	domain.LanguageEnglish: {
		LabelRecord:       "Record",
		LabelStop:         "Stop",
		LabelBack:         "Back",
		LabelDone:         "Done",
		LabelPlaceholder:  "Describe how you feel",
		LabelLongAnswer:   "Long answer",
		LabelRecordings:   "Recordings",
		LabelNoRecordings: "No recordings yet",
		LabelPrompts:      "Questions",
	},
}

// Text returns the interface text for key in lang, or the key itself when
// it is unknown.
func Text(lang domain.Language, key Label) string {
	if text, ok := labels[Normalize(lang)][key]; ok {
		return text
	}
	return string(key)
}

// Labels returns every label for lang, keyed by label name.
func Labels(lang domain.Language) map[string]string {
	set := labels[Normalize(lang)]
	out := make(map[string]string, len(set))
	for key, text := range set {
		out[string(key)] = text
	}
	return out
}
