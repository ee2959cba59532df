package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "tag" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := baseMessage(t.lang, code)
	if msg == "" {
		msg = code
	}
	if detail := detailFor(data); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func baseMessage(lang, code string) string {
	switch lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "duplicate_tag":
			return "タグが重複しています"
		case "duplicate_type_claim":
			return "型の登録が競合しています"
		case "unknown_tag":
			return "未知のタグです"
		case "unregistered_type":
			return "未登録の型です"
		case "unencodable_value":
			return "エンコードできない値です"
		case "unknown_transform":
			return "未知の変換名です"
		case "malformed_input":
			return "入力が不正です"
		case "max_depth":
			return "深さの上限を超えました"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "duplicate_tag":
			return "duplicate tag"
		case "duplicate_type_claim":
			return "conflicting type claim"
		case "unknown_tag":
			return "unknown tag"
		case "unregistered_type":
			return "unregistered type"
		case "unencodable_value":
			return "unencodable value"
		case "unknown_transform":
			return "unknown transform"
		case "malformed_input":
			return "malformed input"
		case "max_depth":
			return "max depth exceeded"
		case "parse_error":
			return "parse error"
		}
	}
	return ""
}

// detailFor picks the most useful data entry to append. Kept to a single
// well-known key so messages stay short and stable.
func detailFor(data map[string]string) string {
	for _, k := range []string{"tag", "type", "name", "ref", "key"} {
		if v, ok := data[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
