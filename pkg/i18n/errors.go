package i18n

import "errors"

var (
	ErrNoTranslations      = errors.New("i18n: no translations")
	ErrInvalidTranslations = errors.New("i18n: invalid translations")
	ErrInvalidFile         = errors.New("i18n: invalid translation file")
)
