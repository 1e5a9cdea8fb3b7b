package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	. "itemtracker/pkg/test"

	"itemtracker/internal/adapter/database/sqlite/repository"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
	"itemtracker/pkg/test/factory"
)

type ItemRepositoryTestSuite struct {
	suite.Suite
	store *repository.Store
	owner domain.User
	other domain.User
}

func (s *ItemRepositoryTestSuite) SetupTest() {
	s.store = InitTestStore(s.T())
	s.owner = CreateUser(s.T(), s.store, "owner@example.com")
	s.other = CreateUser(s.T(), s.store, "other@example.com")
}

func TestItemRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ItemRepositoryTestSuite))
}

// inSession runs fn in a session that is committed afterwards.
func (s *ItemRepositoryTestSuite) inSession(fn func(session port.Session)) {
	session, err := s.store.Begin(context.Background())
	require.NoError(s.T(), err)

	fn(session)

	require.NoError(s.T(), session.Commit())
}

func (s *ItemRepositoryTestSuite) create(userID int, value string) domain.Item {
	var item domain.Item

	s.inSession(func(session port.Session) {
		var err error
		item, err = session.Items().Create(context.Background(), factory.NewItem(userID, map[string]any{
			"Value":     value,
			"Completed": false,
		}))
		require.NoError(s.T(), err)
	})

	return item
}

func (s *ItemRepositoryTestSuite) TestRepository_Create_RoundTrip() {
	ctx := context.Background()
	name := "groceries"
	duration := 12.5

	item := factory.NewItem(s.owner.ID)
	item.Value = "buy milk"
	item.Name = &name
	item.Notes = nil
	item.Completed = true
	item.Duration = &duration

	s.inSession(func(session port.Session) {
		saved, err := session.Items().Create(ctx, item)

		require.NoError(s.T(), err)
		assert.NotZero(s.T(), saved.ID)
		assert.Equal(s.T(), "buy milk", saved.Value)
		assert.Equal(s.T(), &name, saved.Name)
		assert.Nil(s.T(), saved.Notes)
		assert.True(s.T(), saved.Completed)
		assert.Equal(s.T(), 12.5, *saved.Duration)
		assert.Equal(s.T(), s.owner.ID, saved.UserId)
		assert.True(s.T(), item.Created.Equal(saved.Created))
		assert.Equal(s.T(), time.UTC, saved.Created.Location())
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	s.inSession(func(session port.Session) {
		_, err := session.Items().GetByID(context.Background(), 9999)

		Expect(err).To(MatchError(domain.ErrItemNotFound))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_Update_OnlySuppliedFields() {
	ctx := context.Background()
	created := s.create(s.owner.ID, "original")
	later := created.Updated.Add(time.Second)

	s.inSession(func(session port.Session) {
		updated, err := session.Items().Update(ctx, created.ID, domain.ItemPatch{
			Completed: domain.Some(true),
			Notes:     domain.Some[*string](nil),
		}, later)

		require.NoError(s.T(), err)
		assert.Equal(s.T(), "original", updated.Value)
		assert.Equal(s.T(), created.Name, updated.Name)
		assert.Nil(s.T(), updated.Notes)
		assert.True(s.T(), updated.Completed)
		assert.True(s.T(), updated.Updated.Equal(later))
		assert.True(s.T(), updated.Created.Equal(created.Created))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_Update_NotFound() {
	s.inSession(func(session port.Session) {
		_, err := session.Items().Update(context.Background(), 4242, domain.ItemPatch{Value: domain.Some("x")}, domain.Now())

		Expect(err).To(MatchError(domain.ErrItemNotFound))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_Delete() {
	ctx := context.Background()
	created := s.create(s.owner.ID, "doomed")

	s.inSession(func(session port.Session) {
		require.NoError(s.T(), session.Items().Delete(ctx, created.ID))

		_, err := session.Items().GetByID(ctx, created.ID)
		Expect(err).To(MatchError(domain.ErrItemNotFound))

		err = session.Items().Delete(ctx, created.ID)
		Expect(err).To(MatchError(domain.ErrItemNotFound))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_List_PaginatesWithStableTotal() {
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c", "d", "e"} {
		s.create(s.owner.ID, v)
	}

	s.create(s.other.ID, "foreign")

	s.inSession(func(session port.Session) {
		owner := s.owner.ID

		first, err := session.Items().List(ctx, domain.ListQuery{OwnerID: &owner, Offset: 0, Limit: 2, OrderBy: "id"})
		require.NoError(s.T(), err)

		second, err := session.Items().List(ctx, domain.ListQuery{OwnerID: &owner, Offset: 4, Limit: 2, OrderBy: "id"})
		require.NoError(s.T(), err)

		Expect(first.Items).To(HaveLen(2))
		Expect(second.Items).To(HaveLen(1))
		Expect(first.Total).To(Equal(5))
		Expect(second.Total).To(Equal(5))
		Expect(first.Items[0].Value).To(Equal("a"))
		Expect(second.Items[0].Value).To(Equal("e"))
		Expect(second.ContentRange()).To(Equal("4-5/5"))

		all, err := session.Items().List(ctx, domain.ListQuery{Offset: 0, Limit: 100})
		require.NoError(s.T(), err)
		Expect(all.Total).To(Equal(6))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_List_SortDescending() {
	ctx := context.Background()

	for _, v := range []string{"b", "c", "a"} {
		s.create(s.owner.ID, v)
	}

	s.inSession(func(session port.Session) {
		page, err := session.Items().List(ctx, domain.ListQuery{Offset: 0, Limit: 10, OrderBy: "value", Descending: true})
		require.NoError(s.T(), err)

		values := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			values = append(values, item.Value)
		}

		Expect(values).To(Equal([]string{"c", "b", "a"}))
	})
}

func (s *ItemRepositoryTestSuite) TestRepository_List_Empty() {
	s.inSession(func(session port.Session) {
		page, err := session.Items().List(context.Background(), domain.ListQuery{Offset: 0, Limit: 10})

		require.NoError(s.T(), err)
		Expect(page.Items).To(BeEmpty())
		Expect(page.Items).NotTo(BeNil())
		Expect(page.Total).To(Equal(0))
	})
}

func (s *ItemRepositoryTestSuite) TestStore_RollbackDiscardsWrites() {
	ctx := context.Background()

	session, err := s.store.Begin(ctx)
	require.NoError(s.T(), err)

	_, err = session.Items().Create(ctx, factory.NewItem(s.owner.ID, map[string]any{"Value": "ghost"}))
	require.NoError(s.T(), err)
	require.NoError(s.T(), session.Rollback())

	s.inSession(func(session port.Session) {
		page, err := session.Items().List(ctx, domain.ListQuery{Offset: 0, Limit: 10})

		require.NoError(s.T(), err)
		Expect(page.Total).To(Equal(0))
	})
}
