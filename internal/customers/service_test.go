package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateInput{
		Name:          "  บจก. สปอร์ตอีเวนต์  ",
		ContactPerson: "คุณนิด",
		Phone:         "02-555-1234",
	})
	require.NoError(t, err)
	require.NotZero(t, c.ID)
	require.Equal(t, "บจก. สปอร์ตอีเวนต์", c.Name, "name is trimmed")

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Name, got.Name)

	_, err = svc.Create(ctx, CreateInput{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "บจก. สปอร์ตอีเวนต์"})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceListSearchAndPaging(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	names := []string{"Aurora Sports", "Bangkok Medals", "Chiang Mai Trophies", "Aurora Events"}
	for _, name := range names {
		_, err := svc.Create(ctx, CreateInput{Name: name})
		require.NoError(t, err)
	}

	all, total, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, all, 4)
	require.Equal(t, "Aurora Events", all[0].Name, "sorted by name")

	aurora, total, err := svc.List(ctx, ListFilters{Search: "aurora"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, aurora, 2)

	paged, total, err := svc.List(ctx, ListFilters{Limit: 2, Offset: 3})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, paged, 1)
}
