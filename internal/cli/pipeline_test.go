package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tixgen/internal/compiler"
)

func declNames(decls []compiler.Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}

func sampleDecls() []compiler.Declaration {
	return []compiler.Declaration{{Name: "UserJson"}, {Name: "EventJson"}, {Name: "StatusJson"}}
}

func TestSelectEntities(t *testing.T) {
	t.Run("no names keeps all", func(t *testing.T) {
		out, err := selectEntities(sampleDecls(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"UserJson", "EventJson", "StatusJson"}, declNames(out))
	})

	t.Run("with or without suffix", func(t *testing.T) {
		out, err := selectEntities(sampleDecls(), []string{"Status", "UserJson"})
		require.NoError(t, err)
		assert.Equal(t, []string{"UserJson", "StatusJson"}, declNames(out))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := selectEntities(sampleDecls(), []string{"User", "Nope"})
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
		assert.Contains(t, loadErr.Message, "Nope")
		assert.NotContains(t, loadErr.Message, "User")
	})
}

func TestOrderDeclarations(t *testing.T) {
	out := orderDeclarations(sampleDecls(), []string{"Status", "Missing", "Event"})
	assert.Equal(t, []string{"StatusJson", "EventJson", "UserJson"}, declNames(out))

	out = orderDeclarations(sampleDecls(), nil)
	assert.Equal(t, []string{"UserJson", "EventJson", "StatusJson"}, declNames(out))
}
