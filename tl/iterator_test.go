package tl

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorBadSeparator(t *testing.T) {
	it := NewIterator("---foo---")

	_, err := it.Next()
	assert.ErrorIs(t, err, ErrUnknownSeparator)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestIteratorRecoversFromBadStatement(t *testing.T) {
	it := NewIterator("first#1 = t; // comment\nsecond and bad;\nthird#3 = t;")

	def, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", def.Name)
	assert.Equal(t, uint32(1), def.ID)

	_, err = it.Next()
	assert.ErrorIs(t, err, ErrMissingType)

	def, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, "third", def.Name)
	assert.Equal(t, uint32(3), def.ID)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestIteratorCategories(t *testing.T) {
	input := `
foo = Bar;
---functions---
getFoo = Foo;
---types---
baz = Baz;
---functions---;
getBaz = Baz;`

	defs, errs := Parse(input)
	require.Empty(t, errs)
	require.Len(t, defs, 4)

	want := []struct {
		name     string
		category Category
	}{
		{"foo", Types},
		{"getFoo", Functions},
		{"baz", Types},
		{"getBaz", Functions},
	}
	for i, w := range want {
		assert.Equal(t, w.name, defs[i].Name)
		assert.Equal(t, w.category, defs[i].Category, w.name)
	}
}

func TestIteratorComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"terminator in comment", "// this; is ignored\nfoo = Bar;", []string{"foo"}},
		{"empty statements", ";;  ;\n// only a comment\n;", nil},
		{"missing final terminator", "a = A;\nb = B", []string{"a", "b"}},
		{"trailing comment", "a = A;\n// trailing comment\n", []string{"a"}},
		{"single slash", "a x:int = A; / ;", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, _ := Parse(tt.input)
			var names []string
			for _, def := range defs {
				names = append(names, def.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestIteratorSingleSlashIsContent(t *testing.T) {
	_, errs := Parse("a = A; / ;")
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingType)
}

func TestIteratorStatementError(t *testing.T) {
	_, errs := Parse("a = A;\n\nb c = B;\n")
	require.Len(t, errs, 1)

	var stmt *StatementError
	require.ErrorAs(t, errs[0], &stmt)
	assert.Equal(t, 3, stmt.Line)
	assert.Equal(t, "b c = B", stmt.Statement)
	assert.ErrorIs(t, errs[0], ErrNotImplemented)
}

func TestIteratorStatementErrorLineSkipsComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"trailing comment of previous statement", "first#1 = t; // comment\nsecond and bad;\nthird#3 = t;", 2},
		{"leading doc comment", "a = A;\n//@description Broken\n//@x Value\nb x:int = ;", 4},
		{"comment with terminator", "// one; two\n\nbad bad;", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(tt.input)
			require.Len(t, errs, 1)

			var stmt *StatementError
			require.ErrorAs(t, errs[0], &stmt)
			assert.Equal(t, tt.want, stmt.Line)
		})
	}
}

func TestIteratorAllStopsEarly(t *testing.T) {
	count := 0
	for def, err := range NewIterator("a = A; b = B; c = C;").All() {
		require.NoError(t, err)
		require.NotNil(t, def)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestIteratorDocumentedSchema(t *testing.T) {
	input := `
//@class AuthorizationState @description Represents the current authorization state

//@description Initialization parameters are needed
authorizationStateWaitTdlibParameters = AuthorizationState;

//@description The user has been successfully authorized
authorizationStateReady = AuthorizationState;

---functions---

//@description Returns the current user @only_local Pass true to get only locally available information
getMe only_local:Bool = User;
`
	defs, errs := Parse(input)
	require.Empty(t, errs)
	require.Len(t, defs, 3)

	assert.Equal(t, "Initialization parameters are needed", defs[0].Description)
	assert.Equal(t, "The user has been successfully authorized", defs[1].Description)
	assert.Equal(t, Functions, defs[2].Category)
	assert.Equal(t, "Pass true to get only locally available information", defs[2].Params[0].Description)
}
