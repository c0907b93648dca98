package script

import (
	"strings"
	"unicode"
)

// shellSpecial lists the characters bash would interpret in an unquoted word.
const shellSpecial = "'\"\\$`&;|<>()*?[]#~!{}"

var doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

// Quote double-quotes token when it contains whitespace or a shell
// metacharacter. Other tokens are returned unchanged.
func Quote(token string) string {
	if !needsQuoting(token) {
		return token
	}
	return `"` + doubleQuoteEscaper.Replace(token) + `"`
}

func needsQuoting(token string) bool {
	return strings.ContainsFunc(token, unicode.IsSpace) || strings.ContainsAny(token, shellSpecial)
}

// JoinCommand renders argv as one shell command line.
func JoinCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}
