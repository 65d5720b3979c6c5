package outcome

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var portuguese = map[string]string{
	MsgThanksNotThisTime: "Obrigado pela participação!\n\nNão foi dessa vez!",
	MsgThanks:            "Obrigado pela participação!",
	MsgCongratulations:   "PARABÉNS!\nVocê fez %d pontos!",
}

var translations = map[language.Tag]map[string]string{
	language.Portuguese:          portuguese,
	language.BrazilianPortuguese: portuguese,
	language.EuropeanPortuguese:  portuguese,
}

func newMessageCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("register %s message %q: %w", tag, key, err)
			}
		}
	}
	return b, nil
}

// newPrinter returns a printer for lang. Unparseable tags fall back to DefaultLanguage.
func newPrinter(lang string, cat catalog.Catalog) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.MustParse(DefaultLanguage)
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}
