package nodes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLex(t *testing.T) {
	t.Parallel()
	toks, err := lex(`a_1 <= 2.5e-1 && "s" != x`)
	require.NoError(t, err)
	var texts []string
	var kinds []tokenKind
	for _, tk := range toks[:len(toks)-1] {
		texts = append(texts, tk.text)
		kinds = append(kinds, tk.kind)
	}
	require.Equal(t, []string{"a_1", "<=", "2.5e-1", "&&", "s", "!=", "x"}, texts)
	require.Equal(t, []tokenKind{tokIdent, tokSym, tokNumber, tokSym, tokString, tokSym, tokIdent}, kinds)
	require.Equal(t, tokEOF, toks[len(toks)-1].kind)
}

func TestLexErrors(t *testing.T) {
	t.Parallel()
	_, err := lex(`"unterminated`)
	require.Error(t, err)
	_, err = lex("a @ b")
	require.Error(t, err)
}
