package sqlite_test

import (
	"context"
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadService_CreateLead(t *testing.T) {
	t.Parallel()

	t.Run("creates lead with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewLeadService(db)
		ctx := context.Background()

		lead := &sitechat.Lead{
			Domain:  "example.com",
			Name:    "Pat Jones",
			Email:   "pat@example.net",
			Message: "Please call me about a quote.",
		}
		require.NoError(t, svc.CreateLead(ctx, lead))

		assert.NotEmpty(t, lead.ID, "ID should be generated")
		assert.False(t, lead.CreatedAt.IsZero(), "CreatedAt should be set")
	})

	t.Run("rejects lead without contact info", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewLeadService(db)

		err := svc.CreateLead(context.Background(), &sitechat.Lead{
			Domain: "example.com",
			Name:   "Pat Jones",
		})
		require.Error(t, err)
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})
}

func TestLeadService_FindLeadsByDomain(t *testing.T) {
	t.Parallel()

	t.Run("returns leads newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewLeadService(db)
		ctx := context.Background()

		for _, name := range []string{"First Caller", "Second Caller", "Third Caller"} {
			require.NoError(t, svc.CreateLead(ctx, &sitechat.Lead{
				Domain: "example.com",
				Name:   name,
				Phone:  "(555) 000-0000",
			}))
		}

		leads, err := svc.FindLeadsByDomain(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, leads, 3)
		assert.Equal(t, "Third Caller", leads[0].Name)
		assert.Equal(t, "First Caller", leads[2].Name)
	})

	t.Run("scopes leads to the domain", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewLeadService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateLead(ctx, &sitechat.Lead{
			Domain: "one.example", Name: "A", Phone: "(555) 000-0001",
		}))
		require.NoError(t, svc.CreateLead(ctx, &sitechat.Lead{
			Domain: "two.example", Name: "B", Phone: "(555) 000-0002",
		}))

		leads, err := svc.FindLeadsByDomain(ctx, "one.example")
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, "A", leads[0].Name)
	})
}
