package serrors

// BaseError is the structured error surfaced by services. Code is a stable
// machine-readable identifier, Message a developer-facing description and
// LocaleKey the translation key used by presentation layers.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

// WithTemplateData returns a copy of the error carrying template data for
// localization. The receiver is not mutated so package-level sentinels stay
// safe to share.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	clone := *e
	clone.TemplateData = data
	return &clone
}

// Is matches errors by code so wrapped copies with template data still
// compare equal to their sentinel.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}
