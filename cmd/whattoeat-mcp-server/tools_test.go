package main

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"whattoeat/internal/recommend"
	"whattoeat/internal/session"
)

type fakeRecommender struct {
	key session.Key
	loc recommend.Location
	err error
}

func (f *fakeRecommender) Recommend(ctx context.Context, key session.Key, loc recommend.Location) (recommend.Result, error) {
	f.key, f.loc = key, loc
	if f.err != nil {
		return recommend.Result{}, f.err
	}
	return recommend.Result{Food: "Pho", ImageLink: "https://img/pho.jpg"}, nil
}

type fakeHistory map[string][]string

func (f fakeHistory) GetHistory(ctx context.Context, email string) ([]string, error) {
	return f[email], nil
}

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestRecommendFood(t *testing.T) {
	r := &fakeRecommender{}
	tools := NewFoodTools(r, fakeHistory{})

	res, err := tools.RecommendFood(context.Background(), nil, &mcp.CallToolParamsFor[RecommendFoodParams]{
		Arguments: RecommendFoodParams{SessionID: "chat-1", City: "Hanoi", Country: "Vietnam"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.JSONEq(t, `{"food":"Pho","imageLink":"https://img/pho.jpg"}`, text(t, res))
	require.Equal(t, session.AnonymousKey("mcp:chat-1"), r.key)
	require.Equal(t, "Hanoi, Vietnam", r.loc.String())
}

func TestRecommendFood_Errors(t *testing.T) {
	tools := NewFoodTools(&fakeRecommender{err: errors.New("boom")}, fakeHistory{})

	res, err := tools.RecommendFood(context.Background(), nil, &mcp.CallToolParamsFor[RecommendFoodParams]{
		Arguments: RecommendFoodParams{City: "Hanoi", Country: "Vietnam"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)

	res, err = tools.RecommendFood(context.Background(), nil, &mcp.CallToolParamsFor[RecommendFoodParams]{
		Arguments: RecommendFoodParams{SessionID: "s", City: "Hanoi", Country: "Vietnam"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "boom")
}

func TestListSavedFoods(t *testing.T) {
	tools := NewFoodTools(&fakeRecommender{}, fakeHistory{"a@b.c": {"pho", "laksa"}})

	res, err := tools.ListSavedFoods(context.Background(), nil, &mcp.CallToolParamsFor[ListSavedFoodsParams]{
		Arguments: ListSavedFoodsParams{Email: "A@B.C"},
	})
	require.NoError(t, err)
	require.Equal(t, "pho\nlaksa", text(t, res))

	res, _ = tools.ListSavedFoods(context.Background(), nil, &mcp.CallToolParamsFor[ListSavedFoodsParams]{
		Arguments: ListSavedFoodsParams{Email: "nobody@b.c"},
	})
	require.Equal(t, "no saved foods", text(t, res))

	res, _ = tools.ListSavedFoods(context.Background(), nil, &mcp.CallToolParamsFor[ListSavedFoodsParams]{})
	require.True(t, res.IsError)
}
