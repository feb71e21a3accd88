package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ZEN8890/Pinventory-Api/internal/domain/model"
	"github.com/ZEN8890/Pinventory-Api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_CreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(
		model.StockItem{SKU: "A1", Name: "Widget", Quantity: 1},
		model.StockItem{SKU: "B2", Name: "Bolt", Quantity: 2},
	)
	groups := groupView{store.state}
	uc := usecase.NewGroupUsecase(store, groups, fixedClock{testNow})

	g, err := uc.Create(ctx, rootActor, usecase.CreateGroupInput{Name: "Hardware", SKUs: []string{"A1", " "}})
	require.NoError(t, err)

	list, err := usecase.NewGroupUsecase(store, groupView{store.snapshot()}, fixedClock{testNow}).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "A1", list[0].Items[0].SKU)

	name := "Tools"
	_, err = uc.Update(ctx, rootActor, g.ID, usecase.UpdateGroupInput{Name: &name, SKUs: []string{"A1", "B2"}, ReplaceSKUs: true})
	require.NoError(t, err)

	snap := store.snapshot()
	assert.Equal(t, "Tools", snap.groups[g.ID].Name)
	assert.Equal(t, []string{"A1", "B2"}, snap.members[g.ID])

	require.NoError(t, uc.Delete(ctx, rootActor, g.ID))
	err = uc.Delete(ctx, rootActor, g.ID)
	assertHTTPError(t, err, http.StatusNotFound, usecase.ErrNotFound)

	assert.Len(t, store.snapshot().audit, 3)
}

func TestGroup_UnknownSKURejected(t *testing.T) {
	store := newMemStore()
	uc := usecase.NewGroupUsecase(store, groupView{store.state}, fixedClock{testNow})

	_, err := uc.Create(context.Background(), rootActor, usecase.CreateGroupInput{Name: "X", SKUs: []string{"ZZZ"}})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.ErrInvalidInput)
	assert.Empty(t, store.snapshot().groups)

	_, err = uc.Create(context.Background(), rootActor, usecase.CreateGroupInput{Name: " "})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.ErrInvalidInput)
}

func TestGroup_Update_Validation(t *testing.T) {
	store := newMemStore()
	uc := usecase.NewGroupUsecase(store, groupView{store.state}, fixedClock{testNow})

	_, err := uc.Update(context.Background(), rootActor, 1, usecase.UpdateGroupInput{})
	assertHTTPError(t, err, http.StatusBadRequest, usecase.ErrInvalidInput)

	desc := "x"
	_, err = uc.Update(context.Background(), rootActor, 99, usecase.UpdateGroupInput{Description: &desc})
	assertHTTPError(t, err, http.StatusNotFound, usecase.ErrNotFound)
}
