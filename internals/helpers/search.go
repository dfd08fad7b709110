package helper

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains bikin pola "%term%" (lowercase) untuk dipakai bareng
// `LOWER(col) LIKE ? ESCAPE '\'`. Wildcard di input user dianggap literal.
func LikeContains(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
