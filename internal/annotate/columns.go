package annotate

// Columns names the table columns read and written by the annotator
type Columns struct {
	Description string
	Text        string

	PrimaryLanguage     string
	PrimaryConfidence   string
	SecondaryLanguage   string
	SecondaryConfidence string

	Translated     string
	SourceLanguage string
}

func DefaultColumns() Columns {
	return Columns{
		Description:         "db_description_full",
		Text:                "text",
		PrimaryLanguage:     "lang_1",
		PrimaryConfidence:   "conf_1",
		SecondaryLanguage:   "lang_2",
		SecondaryConfidence: "conf_2",
		Translated:          "translated",
		SourceLanguage:      "source_lang",
	}
}
