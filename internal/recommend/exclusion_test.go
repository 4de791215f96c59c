package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"whattoeat/internal/session"
)

func TestExclusionBuilder_DropsLegacySentinel(t *testing.T) {
	h := &stubHistory{foods: map[string][]string{"a@b.c": {"None"}}}
	b := NewExclusionBuilder(h)
	ex, err := b.Build(context.Background(), session.AccountKey("a@b.c"), session.Record{})
	require.NoError(t, err)
	require.Empty(t, ex.History)
	require.NotNil(t, ex.History)
}

func TestExclusionBuilder_DeclinedFoldedAndDeduped(t *testing.T) {
	b := NewExclusionBuilder(nil)
	ex, err := b.Build(context.Background(), session.AnonymousKey("d"),
		session.Record{Declined: []string{"Pho", "pho", " Laksa ", ""}})
	require.NoError(t, err)
	require.Equal(t, []string{"pho", "laksa"}, ex.Declined)
	require.Empty(t, ex.History)
}
